package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/reftree/pkg/forest"
)

type network struct {
	Users []user `json:"users"`
}

type user struct {
	ID       string `json:"id"`
	Referrer string `json:"referrer,omitempty"`
}

// WriteJSON encodes f as JSON and writes it to w.
// Users are emitted root by root in pre-order, so every referrer precedes its
// referrals and the output can be re-imported with [ReadJSON].
func WriteJSON(f *forest.Forest, w io.Writer) error {
	out := network{Users: make([]user, 0, f.Len())}

	for _, root := range f.Roots() {
		stack := []string{root}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			out.Users = append(out.Users, user{ID: id, Referrer: f.Referrer(id)})

			kids := f.Children(id)
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, kids[i])
			}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes f to a JSON file at path.
func ExportJSON(f *forest.Forest, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeAndClose(f, file); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeAndClose writes f to wc and closes it. A failed close is reported
// when the write itself succeeded.
func writeAndClose(f *forest.Forest, wc io.WriteCloser) (err error) {
	defer func() {
		if cerr := wc.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()
	return WriteJSON(f, wc)
}
