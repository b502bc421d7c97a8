package feedapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SortOption is one selectable ordering advertised by a feed.
type SortOption struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// SortSpec lists a feed's orderings and the one to use by default.
type SortSpec struct {
	Default string       `json:"default,omitempty"`
	Options []SortOption `json:"options,omitempty"`
}

// FilterOption is one allowed value of a filter.
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

// Filter describes a filter dimension exposed by a feed.
type Filter struct {
	ID      string         `json:"id"`
	Label   string         `json:"label,omitempty"`
	Type    string         `json:"type,omitempty"`
	Options []FilterOption `json:"options,omitempty"`
}

// Manifest is the self-description a feed publishes at <base>manifest.
//
// Only the typed fields are interpreted. The document as received is retained
// and re-emitted by MarshalJSON, so fields this client does not know about
// survive a persist/restore round trip.
type Manifest struct {
	Name        string
	XtorVersion string
	Description string
	Logo        string
	Active      *bool
	Sort        *SortSpec
	Filters     []Filter

	raw json.RawMessage
}

type manifestFields struct {
	Name        string       `json:"name,omitempty"`
	XtorVersion flexibleText `json:"xtor_version,omitempty"`
	Description string       `json:"description,omitempty"`
	Logo        string       `json:"logo,omitempty"`
	Active      *bool        `json:"active,omitempty"`
	Sort        *SortSpec    `json:"sort,omitempty"`
	Filters     []Filter     `json:"filters,omitempty"`
}

// UnmarshalJSON decodes the typed fields and keeps a copy of data.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var fields manifestFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*m = Manifest{
		Name:        fields.Name,
		XtorVersion: string(fields.XtorVersion),
		Description: fields.Description,
		Logo:        fields.Logo,
		Active:      fields.Active,
		Sort:        fields.Sort,
		Filters:     fields.Filters,
		raw:         append(json.RawMessage(nil), bytes.TrimSpace(data)...),
	}
	return nil
}

// MarshalJSON emits the original document when one was decoded.
func (m Manifest) MarshalJSON() ([]byte, error) {
	if len(m.raw) > 0 {
		return m.raw, nil
	}
	return json.Marshal(manifestFields{
		Name:        m.Name,
		XtorVersion: flexibleText(m.XtorVersion),
		Description: m.Description,
		Logo:        m.Logo,
		Active:      m.Active,
		Sort:        m.Sort,
		Filters:     m.Filters,
	})
}

// Validate reports ErrInvalidManifest-worthy problems: a manifest needs both a
// name and an xtor_version.
func (m *Manifest) Validate() error {
	var missing []string
	if m == nil {
		return fmt.Errorf("manifest is empty")
	}
	if strings.TrimSpace(m.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(m.XtorVersion) == "" {
		missing = append(missing, "xtor_version")
	}
	if len(missing) > 0 {
		return fmt.Errorf("manifest missing %s", strings.Join(missing, " and "))
	}
	return nil
}

// IsActive reports the manifest's active flag; only an explicit false disables it.
func (m *Manifest) IsActive() bool {
	return m == nil || m.Active == nil || *m.Active
}

// DefaultSort returns sort.default, or "" when the feed declares none.
func (m *Manifest) DefaultSort() string {
	if m == nil || m.Sort == nil {
		return ""
	}
	return m.Sort.Default
}

// Clone returns a deep copy.
func (m *Manifest) Clone() *Manifest {
	if m == nil {
		return nil
	}
	clone := *m
	if m.Active != nil {
		active := *m.Active
		clone.Active = &active
	}
	if m.Sort != nil {
		sortSpec := *m.Sort
		sortSpec.Options = append([]SortOption(nil), m.Sort.Options...)
		clone.Sort = &sortSpec
	}
	if m.Filters != nil {
		clone.Filters = make([]Filter, len(m.Filters))
		for i, filter := range m.Filters {
			filter.Options = append([]FilterOption(nil), filter.Options...)
			clone.Filters[i] = filter
		}
	}
	clone.raw = append(json.RawMessage(nil), m.raw...)
	return &clone
}

// flexibleText accepts a JSON string or number; feeds publish xtor_version
// both ways.
type flexibleText string

func (t *flexibleText) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = ""
		return nil
	}
	if trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*t = flexibleText(value)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return fmt.Errorf("xtor_version must be a string or number: %w", err)
	}
	*t = flexibleText(number.String())
	return nil
}
