package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Balance is the amount held of one currency.
type Balance struct {
	Name   string
	Amount int
}

// Wallet holds currency balances in insertion order. Order matters: quest penalties
// charge the first currency. It serializes as a JSON object keyed by currency name.
type Wallet []Balance

// Get returns the balance of name.
func (w Wallet) Get(name string) (int, bool) {
	for _, b := range w {
		if b.Name == name {
			return b.Amount, true
		}
	}
	return 0, false
}

// Set assigns the balance of name, appending a new currency when absent.
func (w *Wallet) Set(name string, amount int) {
	for i := range *w {
		if (*w)[i].Name == name {
			(*w)[i].Amount = amount
			return
		}
	}
	*w = append(*w, Balance{Name: name, Amount: amount})
}

// MarshalJSON writes the wallet as an object, preserving order.
func (w Wallet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range w {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(b.Amount))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of name -> amount, keeping document order.
func (w *Wallet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("currencies: %w", err)
	}
	if tok == nil {
		*w = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("currencies: not an object: %s", string(data))
	}

	out := Wallet{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("currencies: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("currencies: unexpected key %v", tok)
		}
		var amount float64
		if err := dec.Decode(&amount); err != nil {
			return fmt.Errorf("currencies: %s: %w", name, err)
		}
		out.Set(name, int(amount))
	}
	*w = out
	return nil
}
