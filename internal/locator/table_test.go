package locator

import (
	"net/url"
	"testing"
)

const base = "https://suap.ifsp.edu.br/admin/processo_eletronico/processo/"

func mustBase(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse(base)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func table(rows string) string {
	return `<table id="result_list"><thead><tr><th>Ações</th><th>Número</th></tr></thead><tbody>` +
		rows + `</tbody></table>`
}

func TestScanTable_ViewIconWins(t *testing.T) {
	frag := table(`<tr>
		<th><a href="/other/9/">edit</a><a class="icon-view" href="/admin/processo_eletronico/processo/123/">ver</a></th>
		<td> 2024.1111.000001 </td><td>Assunto</td>
	</tr>`)

	m, err := ScanTable(frag, "2024.1111.000001", mustBase(t), DefaultStrategies, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Found || m.Row != 1 {
		t.Fatalf("match: %+v", m)
	}
	if m.Href != "https://suap.ifsp.edu.br/admin/processo_eletronico/processo/123/" {
		t.Errorf("Href = %q", m.Href)
	}
	if m.Strategy != "view-icon" {
		t.Errorf("Strategy = %q, want view-icon", m.Strategy)
	}
}

func TestScanTable_RecordPathBeforeAnyAnchor(t *testing.T) {
	frag := table(`<tr>
		<th><a href="/help/">?</a><a href="/admin/processo_eletronico/processo/77/">abrir</a></th>
		<td>X</td>
	</tr>`)

	m, _ := ScanTable(frag, "X", mustBase(t), DefaultStrategies, nil)
	if m.Strategy != "record-path" {
		t.Fatalf("Strategy = %q, want record-path", m.Strategy)
	}
	if m.Href != "https://suap.ifsp.edu.br/admin/processo_eletronico/processo/77/" {
		t.Errorf("Href = %q", m.Href)
	}
}

func TestScanTable_AnyAnchorFallback(t *testing.T) {
	frag := table(`<tr><th><a href="https://elsewhere.example/p/5">p</a></th><td>X</td></tr>`)

	m, _ := ScanTable(frag, "X", mustBase(t), DefaultStrategies, nil)
	if m.Strategy != "any-anchor" || m.Href != "https://elsewhere.example/p/5" {
		t.Fatalf("match: %+v", m)
	}
}

func TestScanTable_NoLinkInMatchingRow(t *testing.T) {
	frag := table(`<tr><th>sem link</th><td>X</td></tr>`)

	m, _ := ScanTable(frag, "X", mustBase(t), DefaultStrategies, nil)
	if !m.Found {
		t.Fatal("row should match")
	}
	if m.Href != "" {
		t.Errorf("Href = %q, want empty", m.Href)
	}
}

func TestScanTable_AnchorWithoutHrefSkipped(t *testing.T) {
	frag := table(`<tr><th><a class="icon-view">ver</a><a href="/p/2/">p</a></th><td>X</td></tr>`)

	m, _ := ScanTable(frag, "X", mustBase(t), DefaultStrategies, nil)
	if m.Strategy != "any-anchor" || m.Href != "https://suap.ifsp.edu.br/p/2/" {
		t.Fatalf("match: %+v", m)
	}
}

func TestScanTable_FirstMatchWins(t *testing.T) {
	frag := table(`
		<tr><th><a class="icon-view" href="/a/1/">v</a></th><td>Y</td></tr>
		<tr><th><a class="icon-view" href="/a/2/">v</a></th><td>X</td></tr>
		<tr><th><a class="icon-view" href="/a/3/">v</a></th><td>X</td></tr>`)

	m, _ := ScanTable(frag, "X", mustBase(t), DefaultStrategies, nil)
	if m.Row != 2 || m.Href != "https://suap.ifsp.edu.br/a/2/" {
		t.Fatalf("match: %+v", m)
	}
}

func TestScanTable_ExactMatchOnly(t *testing.T) {
	frag := table(`
		<tr><th><a href="/a/1/">v</a></th><td>2024.1111.0000011</td></tr>
		<tr><th><a href="/a/2/">v</a></th><td>2024.1111.00000</td></tr>`)

	m, _ := ScanTable(frag, "2024.1111.000001", mustBase(t), DefaultStrategies, nil)
	if m.Found {
		t.Fatalf("unexpected match: %+v", m)
	}
	if m.Rows != 2 {
		t.Errorf("Rows = %d, want 2", m.Rows)
	}
}

func TestScanTable_RowsWithoutDataCellSkipped(t *testing.T) {
	frag := table(`
		<tr><th>X</th></tr>
		<tr><th><a href="/a/2/">v</a></th><td>X</td></tr>`)

	m, _ := ScanTable(frag, "X", mustBase(t), DefaultStrategies, nil)
	if m.Row != 2 {
		t.Fatalf("match: %+v", m)
	}
}

func TestScanTable_OnlyFirstDataCellCompared(t *testing.T) {
	frag := table(`<tr><th><a href="/a/1/">v</a></th><td>other</td><td>X</td></tr>`)

	m, _ := ScanTable(frag, "X", mustBase(t), DefaultStrategies, nil)
	if m.Found {
		t.Fatalf("unexpected match: %+v", m)
	}
}

func TestScanTable_EmptyBody(t *testing.T) {
	m, err := ScanTable(table(""), "X", mustBase(t), DefaultStrategies, nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.Found || m.Rows != 0 {
		t.Fatalf("match: %+v", m)
	}
}

func TestStrategiesFromSelectors(t *testing.T) {
	if got := StrategiesFromSelectors(nil); len(got) != len(DefaultStrategies) {
		t.Fatalf("nil selectors: got %d strategies", len(got))
	}
	got := StrategiesFromSelectors([]string{"a.x", "a"})
	if len(got) != 2 || got[0].Name != "tier-1" || got[1].Name != "any-anchor" || got[1].Selector != "a" {
		t.Fatalf("got %+v", got)
	}
}

func TestStrategiesFromSelectors_DefaultListKeepsNames(t *testing.T) {
	sels := make([]string, len(DefaultStrategies))
	for i, st := range DefaultStrategies {
		sels[i] = st.Selector
	}
	got := StrategiesFromSelectors(sels)
	for i, st := range got {
		if st != DefaultStrategies[i] {
			t.Errorf("strategy %d = %+v, want %+v", i, st, DefaultStrategies[i])
		}
	}
}
