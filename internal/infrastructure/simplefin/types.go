package simplefin

import (
	"bytes"
	"encoding/json"
)

// DecimalString is a balance token that some bridges send as a JSON string
// and others as a bare number. Either form decodes to the literal text;
// null and absent decode to the empty string, which the merge treats as
// "no balance, skip this record".
type DecimalString string

func (d *DecimalString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = DecimalString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = DecimalString(n.String())
	return nil
}

func (d DecimalString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(d))
}

func (d DecimalString) String() string { return string(d) }
