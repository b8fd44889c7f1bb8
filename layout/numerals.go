package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Numbering selects how hours are written.
type Numbering int

const (
	Decimal Numbering = iota
	Roman
)

func (n Numbering) String() string {
	switch n {
	case Decimal:
		return "decimal"
	case Roman:
		return "roman"
	}
	return fmt.Sprintf("Numbering(%d)", int(n))
}

func (n Numbering) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *Numbering) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "decimal", "arabic":
		*n = Decimal
	case "roman":
		*n = Roman
	default:
		return fmt.Errorf("unknown numbering %q", text)
	}
	return nil
}

// SlotSet selects which hour positions receive a numeral.
type SlotSet int

const (
	// AllHours places numerals at every hour.
	AllHours SlotSet = iota

	// Cardinals places numerals at twelve, three, six and nine only.
	Cardinals
)

func (s SlotSet) String() string {
	switch s {
	case AllHours:
		return "all"
	case Cardinals:
		return "cardinals"
	}
	return fmt.Sprintf("SlotSet(%d)", int(s))
}

func (s SlotSet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SlotSet) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "all":
		*s = AllHours
	case "cardinals", "quarters":
		*s = Cardinals
	default:
		return fmt.Errorf("unknown slot set %q", text)
	}
	return nil
}

// Count returns how many slots the set occupies. Cardinal dials divide
// the circle four ways, which widens each slot's sector.
func (s SlotSet) Count() int {
	if s == Cardinals {
		return 4
	}
	return 12
}

// Hours lists the set's hour values in display order.
func (s SlotSet) Hours() []int {
	if s == Cardinals {
		return []int{12, 3, 6, 9}
	}
	hours := make([]int, 12)
	for i := range hours {
		hours[i] = i + 1
	}
	return hours
}

// A Label pairs an hour with its rendered text.
type Label struct {
	Hour int // 1 through 12
	Text string
}

var romans = [13]string{
	1: "I", "II", "III", "IV", "V", "VI",
	"VII", "VIII", "IX", "X", "XI", "XII",
}

// Labels lists the numerals for a dial in display order: twelve first on
// cardinal dials, one through twelve otherwise.
func Labels(n Numbering, s SlotSet) []Label {
	hours := s.Hours()
	out := make([]Label, len(hours))
	for i, h := range hours {
		text := strconv.Itoa(h)
		if n == Roman {
			text = romans[h]
		}
		out[i] = Label{Hour: h, Text: text}
	}
	return out
}
