package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexibleID decodes identifiers the API may send as a string or a number
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = FlexibleID(n.String())
	return nil
}

func (f FlexibleID) String() string { return string(f) }

// Project is a destination for submitted profiles
type Project struct {
	ID   FlexibleID `json:"id"`
	Name string     `json:"name"`
}

// IsZero reports whether no project is set
func (p Project) IsZero() bool {
	return strings.TrimSpace(string(p.ID)) == ""
}

// User is the account returned by a successful login
type User struct {
	ID    FlexibleID `json:"id,omitempty"`
	Email string     `json:"email,omitempty"`
	Name  string     `json:"name,omitempty"`
}

type ScrapeRequest struct {
	LinkedInURL string `json:"linkedin_url"`
	ProjectID   string `json:"project_id"`
}

type ScrapeResponse struct {
	ProfileID FlexibleID `json:"profile_id,omitempty"`
	Message   string     `json:"message,omitempty"`
}

type BatchScrapeRequest struct {
	LinkedInURLs []string `json:"linkedin_urls"`
	ProjectID    string   `json:"project_id"`
}

type BatchScrapeResponse struct {
	Profiles []Result `json:"profiles"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Authenticated bool   `json:"authenticated"`
	Token         string `json:"token,omitempty"`
	User          *User  `json:"user,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Status of one submission attempt
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the record of one submission attempt
type Result struct {
	URL       string     `json:"linkedin_url"`
	Status    Status     `json:"status"`
	ProfileID FlexibleID `json:"profile_id,omitempty"`
	Message   string     `json:"message"`
}

// OK reports whether the submission succeeded
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}
