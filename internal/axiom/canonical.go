package axiom

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces the canonical JSON form of an axiom, used for
// content-addressed fact identity and deterministic trace output.
//
// The encoding follows RFC 8785 conventions as far as this value domain
// needs them:
//  1. Object keys are emitted in a fixed order (args before kind,
//     members before op) so no runtime sorting is required
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//
// Atoms encode as {"args":[key...],"kind":"..."}; connectives encode as
// {"members":[...],"op":"all"|"any"}; constants as {"op":"true"|"false"}.
func MarshalCanonical(ax Axiom) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, ax); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, ax Axiom) error {
	switch v := ax.(type) {
	case Atom:
		buf.WriteString(`{"args":[`)
		for i, e := range v.Args {
			if i > 0 {
				buf.WriteByte(',')
			}
			if e == nil {
				return fmt.Errorf("canonical encoding: atom %q arg %d is nil", v.Kind, i)
			}
			if err := writeCanonicalString(buf, e.Key()); err != nil {
				return err
			}
		}
		buf.WriteString(`],"kind":`)
		if err := writeCanonicalString(buf, string(v.Kind)); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil

	case Conj:
		return writeCanonicalConnective(buf, "all", v.Members)

	case Disj:
		return writeCanonicalConnective(buf, "any", v.Members)

	case TrueAxiom:
		buf.WriteString(`{"op":"true"}`)
		return nil

	case FalseAxiom:
		buf.WriteString(`{"op":"false"}`)
		return nil

	default:
		return fmt.Errorf("canonical encoding: unsupported axiom type %T", ax)
	}
}

func writeCanonicalConnective(buf *bytes.Buffer, op string, members []Axiom) error {
	buf.WriteString(`{"members":[`)
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonical(buf, m); err != nil {
			return err
		}
	}
	buf.WriteString(`],"op":"`)
	buf.WriteString(op)
	buf.WriteString(`"}`)
	return nil
}

// writeCanonicalString encodes a JSON string with NFC normalization and
// HTML escaping disabled. Entity keys and kind names flow through here,
// so identity is stable regardless of the Unicode composition the client
// happened to use.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	normalized := norm.NFC.String(s)

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return err
	}

	// json.Encoder adds a trailing newline, remove it
	out := tmp.Bytes()
	if len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}
	buf.Write(out)
	return nil
}
