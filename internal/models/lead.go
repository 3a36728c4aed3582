package models

import (
	"encoding/json"
	"strings"
)

// leadKeys are the declared Lead keys, lower-cased since encoding/json
// matches field names without regard to case.
var leadKeys = map[string]bool{
	"name": true, "email": true, "company": true, "goals": true,
	"phone": true, "website": true, "industry": true,
	"whatsworking": true, "whatsnot": true, "timeline": true, "budget": true,
	"preferreddate": true, "preferredtime": true,
}

// leadJSON has Lead's fields without its methods.
type leadJSON Lead

func (l *Lead) UnmarshalJSON(data []byte) error {
	var declared leadJSON
	if err := json.Unmarshal(data, &declared); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k := range all {
		if leadKeys[strings.ToLower(k)] {
			delete(all, k)
		}
	}
	*l = Lead(declared)
	l.Extra = nil
	if len(all) > 0 {
		l.Extra = all
	}
	return nil
}

// MarshalJSON writes the declared fields merged over Extra, so a lead
// serializes back to the payload the form sent.
func (l Lead) MarshalJSON() ([]byte, error) {
	out, err := json.Marshal(leadJSON(l))
	if err != nil || len(l.Extra) == 0 {
		return out, err
	}
	var declared map[string]json.RawMessage
	if err := json.Unmarshal(out, &declared); err != nil {
		return nil, err
	}
	merged := make(map[string]json.RawMessage, len(l.Extra)+len(declared))
	for k, v := range l.Extra {
		merged[k] = v
	}
	for k, v := range declared {
		merged[k] = v
	}
	return json.Marshal(merged)
}
