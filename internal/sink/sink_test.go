package sink

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/suaplinks/dbopen"
	"github.com/hazyhaar/suaplinks/record"
)

func sampleRun() record.Run {
	now := time.Now()
	return record.Run{
		ID:         "run-1",
		StartedAt:  now.Add(-time.Minute),
		FinishedAt: now,
		Records: []record.Record{
			{Identifier: "2024.1111.000001", Outcome: record.Link("https://suap.ifsp.edu.br/admin/processo_eletronico/processo/123/")},
			{Identifier: "2024.1111.000002", Outcome: record.NotFound()},
			{Identifier: "2024.1111.000003", Outcome: record.SearchError("net::ERR_ABORTED")},
			{Identifier: "2024.1111.000004", Outcome: record.LinkMissing()},
			{Identifier: "a,b", Outcome: record.NotFound()},
		},
	}
}

func TestCSV_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processos_links.csv")
	if err := NewCSV(path).Write(context.Background(), sampleRun()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "NumeroProcesso,LinkProcesso\n" +
		"2024.1111.000001,https://suap.ifsp.edu.br/admin/processo_eletronico/processo/123/\n" +
		"2024.1111.000002,Não encontrado\n" +
		"2024.1111.000003,Erro na busca\n" +
		"2024.1111.000004,Link não encontrado na linha\n" +
		"\"a,b\",Não encontrado\n"
	if string(data) != want {
		t.Fatalf("csv:\n%s\nwant:\n%s", data, want)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %v", entries)
	}
}

func TestCSV_WriteEmptyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := NewCSV(path).Write(context.Background(), record.Run{}); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "NumeroProcesso,LinkProcesso\n" {
		t.Fatalf("got %q", data)
	}
}

func TestCSV_WriteMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.csv")
	if err := NewCSV(path).Write(context.Background(), sampleRun()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestSQLite_Write(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	s := NewSQLite(db)

	run := sampleRun()
	if err := s.Write(context.Background(), run); err != nil {
		t.Fatal(err)
	}

	var total, found int
	if err := db.QueryRow(`SELECT total, found FROM runs WHERE run_id = ?`, run.ID).Scan(&total, &found); err != nil {
		t.Fatal(err)
	}
	if total != 5 || found != 2 {
		t.Fatalf("total=%d found=%d, want 5/2", total, found)
	}

	rows, err := db.Query(`SELECT identifier, kind, link, message FROM results WHERE run_id = ? ORDER BY position`, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	var got []string
	for rows.Next() {
		var id, kind, link, msg string
		if err := rows.Scan(&id, &kind, &link, &msg); err != nil {
			t.Fatal(err)
		}
		got = append(got, id+"|"+kind+"|"+link+"|"+msg)
	}
	if len(got) != 5 {
		t.Fatalf("rows = %d", len(got))
	}
	if got[2] != "2024.1111.000003|search_error|Erro na busca|net::ERR_ABORTED" {
		t.Errorf("row 2 = %q", got[2])
	}
	if got[3] != "2024.1111.000004|link|Link não encontrado na linha|" {
		t.Errorf("row 3 = %q", got[3])
	}

	if err := s.Write(context.Background(), run); err == nil {
		t.Error("duplicate run id should fail")
	}
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist", "runs.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Write(context.Background(), sampleRun()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}

type failingSink struct {
	err    error
	writes int
}

func (f *failingSink) Write(context.Context, record.Run) error { f.writes++; return f.err }
func (f *failingSink) Close() error                            { return nil }

func TestRouter_FanOutDespiteFailure(t *testing.T) {
	boom := errors.New("disk full")
	a := &failingSink{err: boom}
	b := &failingSink{}

	err := NewRouter(nil, a, b).Write(context.Background(), sampleRun())
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	if a.writes != 1 || b.writes != 1 {
		t.Fatalf("writes a=%d b=%d", a.writes, b.writes)
	}
}
