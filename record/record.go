// Package record defines the values produced by a suaplinks run. Consumers
// (sinks, reports, tests) import this package to read lookup results.
package record

import "time"

// Sentinel texts written in place of a link.
const (
	TextNotFound    = "Não encontrado"
	TextSearchError = "Erro na busca"
	TextLinkMissing = "Link não encontrado na linha"
)

// Kind tags which variant an Outcome holds.
type Kind int

const (
	// KindUnknown is the zero value. It marks an Outcome not built through
	// a constructor and never counts as found.
	KindUnknown Kind = iota
	KindLink
	KindNotFound
	KindSearchError
)

func (k Kind) String() string {
	switch k {
	case KindLink:
		return "link"
	case KindNotFound:
		return "not_found"
	case KindSearchError:
		return "search_error"
	}
	return "unknown"
}

// Outcome is the result of looking up one identifier. It is built only
// through Link, LinkMissing, NotFound and SearchError and never changes.
type Outcome struct {
	kind    Kind
	url     string
	message string
}

// Link is a successful lookup.
func Link(url string) Outcome { return Outcome{kind: KindLink, url: url} }

// LinkMissing is a matched row whose action cell carried no usable link.
// It is still a Link: the row exists, only its href could not be read.
func LinkMissing() Outcome { return Link(TextLinkMissing) }

// NotFound is a completed search with no matching row.
func NotFound() Outcome { return Outcome{kind: KindNotFound} }

// SearchError is an unexpected failure during the lookup.
func SearchError(message string) Outcome {
	return Outcome{kind: KindSearchError, message: message}
}

func (o Outcome) Kind() Kind      { return o.kind }
func (o Outcome) URL() string     { return o.url }
func (o Outcome) Message() string { return o.message }
func (o Outcome) Degraded() bool  { return o.kind == KindLink && o.url == TextLinkMissing }

// Found reports whether the outcome counts as found in run summaries.
// Degraded links count.
func (o Outcome) Found() bool { return o.kind == KindLink }

// Text renders the outcome as written to the link column.
func (o Outcome) Text() string {
	switch o.kind {
	case KindLink:
		return o.url
	case KindSearchError:
		return TextSearchError
	default:
		return TextNotFound
	}
}

func (o Outcome) String() string {
	if o.kind == KindSearchError && o.message != "" {
		return TextSearchError + ": " + o.message
	}
	return o.Text()
}

// Record pairs an identifier with its outcome.
type Record struct {
	Identifier string
	Outcome    Outcome
}

// Run is one batch of lookups, handed to sinks once the batch is over.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Records    []Record
}

// Summary holds the counts reported after a run is written.
type Summary struct {
	Total int
	Found int
}

// Summarize counts records. Found covers every outcome other than
// NotFound and SearchError.
func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		if r.Outcome.Found() {
			s.Found++
		}
	}
	return s
}
