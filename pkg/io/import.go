package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/reftree/pkg/forest"
)

// ReadJSON decodes a referral network from r into a new forest.
//
// The input must be a JSON object with a "users" array:
//
//	{
//	  "users": [{"id": "alice"}, {"id": "bob", "referrer": "alice"}]
//	}
//
// Users are applied in order. Each user is registered first and then linked to
// its referrer, so a referrer must appear before the users it refers.
//
// ReadJSON returns an error if the JSON is malformed, an id is missing or
// duplicated, or a link is rejected by the forest (unknown referrer,
// self-referral, cycle). Errors are wrapped with the offending user id; use
// errors.Is with the forest sentinels to inspect them.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*forest.Forest, error) {
	var data network
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	f := forest.New()
	for i, u := range data.Users {
		if u.ID == "" {
			return nil, fmt.Errorf("user #%d: %w", i, forest.ErrInvalidUserID)
		}
		if _, err := f.RegisterUser(u.ID, ""); err != nil {
			return nil, fmt.Errorf("user %s: %w", u.ID, err)
		}
		if u.Referrer == "" {
			continue
		}
		if err := f.LinkUserToReferrer(u.Referrer, u.ID); err != nil {
			return nil, fmt.Errorf("user %s: %w", u.ID, err)
		}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// ImportJSON reads a network file at path. See [ReadJSON].
func ImportJSON(path string) (*forest.Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
