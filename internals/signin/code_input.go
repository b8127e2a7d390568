package signin

import "strings"

// CodeLength is the fixed length of the one-time verification code.
const CodeLength = 6

// CodeInput models the six-box code entry: one digit per position, paste
// distribution across positions, and backspace/arrow navigation. It is a
// UX affordance only; whether the code is correct is the backend's call.
type CodeInput struct {
	digits [CodeLength]byte // 0 means empty
	cursor int
}

// Enter places a single digit at the cursor and advances. Anything that is
// not a single ASCII digit is rejected.
func (c *CodeInput) Enter(r rune) bool {
	if r < '0' || r > '9' {
		return false
	}
	c.digits[c.cursor] = byte(r)
	if c.cursor < CodeLength-1 {
		c.cursor++
	}
	return true
}

// Backspace clears the digit at the cursor, or moves left first when the
// current box is already empty.
func (c *CodeInput) Backspace() {
	if c.digits[c.cursor] == 0 && c.cursor > 0 {
		c.cursor--
	}
	c.digits[c.cursor] = 0
}

// Left and Right move the cursor without touching digits.
func (c *CodeInput) Left() {
	if c.cursor > 0 {
		c.cursor--
	}
}

func (c *CodeInput) Right() {
	if c.cursor < CodeLength-1 {
		c.cursor++
	}
}

// Paste replaces the whole input with the digits of s, ignoring everything
// else. Pastes longer than the input are rejected outright.
func (c *CodeInput) Paste(s string) bool {
	var digits []byte
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, byte(r))
		}
	}
	if len(digits) > CodeLength {
		return false
	}

	c.digits = [CodeLength]byte{}
	copy(c.digits[:], digits)
	if len(digits) > 0 {
		c.cursor = len(digits)
		if c.cursor > CodeLength-1 {
			c.cursor = CodeLength - 1
		}
	} else {
		c.cursor = 0
	}
	return true
}

// Complete reports whether every position holds a digit. Partial codes
// must never trigger a verification call.
func (c *CodeInput) Complete() bool {
	for _, d := range c.digits {
		if d == 0 {
			return false
		}
	}
	return true
}

// String returns the entered digits, skipping empty positions.
func (c *CodeInput) String() string {
	var b strings.Builder
	for _, d := range c.digits {
		if d != 0 {
			b.WriteByte(d)
		}
	}
	return b.String()
}

// Clear resets the input to empty.
func (c *CodeInput) Clear() {
	c.digits = [CodeLength]byte{}
	c.cursor = 0
}
