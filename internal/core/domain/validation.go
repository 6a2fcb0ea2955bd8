package domain

import "net/http"

// fieldErrors collects field -> rule -> message failures found before a
// request is sent. They surface exactly like the backend's own validation.
type fieldErrors map[string]map[string]string

func (f fieldErrors) add(field, rule, msg string) {
	if f[field] == nil {
		f[field] = map[string]string{}
	}
	f[field][rule] = msg
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &APIError{Status: http.StatusUnprocessableEntity, Fields: f}
}
