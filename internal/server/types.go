package server

import (
	"time"

	"github.com/studiowebux/treeplot/internal/rangetree"
)

// Config represents the collaborator server configuration
type Config struct {
	Addr    string `json:"addr" yaml:"addr"`       // Listen address (default: :8080)
	Logging bool   `json:"logging" yaml:"logging"` // Keep an in-memory request log
	MaxLogs int    `json:"maxLogs" yaml:"maxLogs"` // Request log capacity (default: 1000)
}

// RequestLog represents a logged request
type RequestLog struct {
	Seq       uint64        `json:"seq"`
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Body      string        `json:"body"`
	Status    int           `json:"status"`
	Outcome   string        `json:"outcome"`
	Duration  time.Duration `json:"duration"`
}

// TreeNode is the JSON shape of a tree node served by GET /tree
type TreeNode struct {
	Label string    `json:"label"`
	Red   *bool     `json:"red,omitempty"`
	Left  *TreeNode `json:"left,omitempty"`
	Right *TreeNode `json:"right,omitempty"`
}

// RedBlackSnapshot describes the red-black tree
type RedBlackSnapshot struct {
	Size   int       `json:"size"`
	Height int       `json:"height"`
	Keys   []int64   `json:"keys"`
	Root   *TreeNode `json:"root,omitempty"`
}

// RangeSnapshot describes the 2D range tree
type RangeSnapshot struct {
	Size   int               `json:"size"`
	Height int               `json:"height"`
	Points []rangetree.Point `json:"points"`
	Root   *TreeNode         `json:"root,omitempty"`
}

// TreeSnapshot is the body of GET /tree
type TreeSnapshot struct {
	RedBlack RedBlackSnapshot `json:"redBlackTree"`
	Range    RangeSnapshot    `json:"rangeTree"`
}

// RangeQuery is the body of GET /query
type RangeQuery struct {
	X1     int64             `json:"x1"`
	X2     int64             `json:"x2"`
	Y1     int64             `json:"y1"`
	Y2     int64             `json:"y2"`
	Count  int               `json:"count"`
	Points []rangetree.Point `json:"points"`
}

// KeyLookup is the body of GET /lookup
type KeyLookup struct {
	Key       int64  `json:"key"`
	Present   bool   `json:"present"`
	Successor *int64 `json:"successor,omitempty"`
}
