package types

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrUnknownMode is returned by ParseMode for names it does not recognise
var ErrUnknownMode = errors.New("unknown mode")

// Mode identifies the tree structure being built
type Mode int

const (
	ModeRangeTree Mode = iota
	ModeRedBlackTree
)

// Endpoint paths served by the tree service
const (
	EndpointRangeTree    = "/add-2d-range-tree"
	EndpointRedBlackTree = "/add-red-black-tree"
)

// String returns the canonical mode name used in config files and flags
func (m Mode) String() string {
	switch m {
	case ModeRangeTree:
		return "range-tree"
	case ModeRedBlackTree:
		return "red-black-tree"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Title returns the label shown in the mode selector
func (m Mode) Title() string {
	switch m {
	case ModeRangeTree:
		return "2D Range Tree"
	case ModeRedBlackTree:
		return "Red-Black Tree"
	default:
		return m.String()
	}
}

// Endpoint returns the insertion path for the mode
func (m Mode) Endpoint() string {
	if m == ModeRangeTree {
		return EndpointRangeTree
	}
	return EndpointRedBlackTree
}

// Fields returns the form field names for the mode, in submission order
func (m Mode) Fields() []string {
	if m == ModeRangeTree {
		return []string{"x", "y"}
	}
	return []string{"k"}
}

// Other returns the opposite mode
func (m Mode) Other() Mode {
	if m == ModeRangeTree {
		return ModeRedBlackTree
	}
	return ModeRangeTree
}

// ParseMode resolves a mode name or alias
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "range-tree", "range", "2d", "2d-range-tree":
		return ModeRangeTree, nil
	case "red-black-tree", "rb", "rbt", "red-black":
		return ModeRedBlackTree, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// InsertionRecord is the user-entered payload for one insertion
type InsertionRecord interface {
	Mode() Mode
	// Params returns the form body parameters, in submission order
	Params() []Param
	// Describe returns the text shown in the insertion log
	Describe() string
}

// Param is a single urlencoded key/value pair
type Param struct {
	Key   string
	Value Value
}

// PointInsertion inserts a point into the 2D range tree
type PointInsertion struct {
	X Value
	Y Value
}

func (p PointInsertion) Mode() Mode { return ModeRangeTree }

func (p PointInsertion) Params() []Param {
	return []Param{{Key: "x", Value: p.X}, {Key: "y", Value: p.Y}}
}

func (p PointInsertion) Describe() string {
	return fmt.Sprintf("(%s, %s)", p.X.Display(), p.Y.Display())
}

// KeyInsertion inserts a key into the red-black tree
type KeyInsertion struct {
	K Value
}

func (k KeyInsertion) Mode() Mode { return ModeRedBlackTree }

func (k KeyInsertion) Params() []Param {
	return []Param{{Key: "k", Value: k.K}}
}

func (k KeyInsertion) Describe() string {
	return k.K.Display()
}

// EncodeParams builds an application/x-www-form-urlencoded body, keeping
// parameter order (url.Values would sort the keys)
func EncodeParams(params []Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value.String()))
	}
	return strings.Join(parts, "&")
}

// LogEntry is one rendered row of the insertion log
type LogEntry struct {
	Seq    uint64    `json:"seq"`
	Mode   Mode      `json:"mode"`
	Text   string    `json:"text"`
	Fields []string  `json:"fields"` // display value per form field
	At     time.Time `json:"at"`
}

// RequestResult contains the HTTP response data for one insertion
type RequestResult struct {
	Seq          uint64 `json:"seq"`
	Mode         Mode   `json:"mode"`
	URL          string `json:"url"`
	Status       int    `json:"status"`
	StatusText   string `json:"statusText"`
	Body         string `json:"body"`
	Duration     int64  `json:"duration"`     // milliseconds
	RequestSize  int    `json:"requestSize"`  // bytes
	ResponseSize int    `json:"responseSize"` // bytes
	Error        string `json:"error,omitempty"`
}

// OutcomeKind classifies a finished request
type OutcomeKind int

const (
	OutcomeTransportError OutcomeKind = iota
	OutcomeImage
	OutcomeMessage
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeImage:
		return "image"
	case OutcomeMessage:
		return "message"
	default:
		return "transport-error"
	}
}

// Outcome is the classified result of one insertion request
type Outcome struct {
	Kind OutcomeKind
	Seq  uint64
	Mode Mode
	// Text is the data URI for images, the raw body for messages and the
	// transport failure description otherwise
	Text string
}

// TLSConfig configures the dispatcher's HTTPS client
type TLSConfig struct {
	CertFile           string `yaml:"certFile,omitempty"`
	KeyFile            string `yaml:"keyFile,omitempty"`
	CAFile             string `yaml:"caFile,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify,omitempty"`
}
