package timer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical renders the list as canonical JSON: object keys in
// sorted order, strings NFC normalised, no HTML escaping, no whitespace.
// Two lists holding equal timers in equal order always produce identical
// bytes, which Digest relies on.
func MarshalCanonical(l List) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, t := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonicalTimer(&buf, t); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Digest returns the hex SHA-256 of the list's canonical JSON.
func Digest(l List) (string, error) {
	data, err := MarshalCanonical(l)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// writeCanonicalTimer writes one timer with keys in sorted order:
// elapsed, id, isRunning, project, title.
func writeCanonicalTimer(buf *bytes.Buffer, t Timer) error {
	buf.WriteString(`{"elapsed":`)
	buf.WriteString(strconv.FormatInt(t.Elapsed, 10))

	buf.WriteString(`,"id":`)
	if err := writeCanonicalString(buf, t.ID); err != nil {
		return err
	}

	buf.WriteString(`,"isRunning":`)
	buf.WriteString(strconv.FormatBool(t.IsRunning))

	buf.WriteString(`,"project":`)
	if err := writeCanonicalString(buf, t.Project); err != nil {
		return err
	}

	buf.WriteString(`,"title":`)
	if err := writeCanonicalString(buf, t.Title); err != nil {
		return err
	}

	buf.WriteByte('}')
	return nil
}

func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	// Encoder appends a newline.
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
