package validate

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/ShiraazMoollatjie/goluhn"
)

const (
	TicketPrefix = "TKT-"
	ticketDigits = 11
)

// NewTicketCode returns TKT- followed by random digits and a Luhn check digit.
func NewTicketCode() (string, error) {
	var sb strings.Builder
	for i := 0; i < ticketDigits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate ticket code: %w", err)
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	body := sb.String()
	check, _, err := goluhn.Calculate(body)
	if err != nil {
		return "", fmt.Errorf("generate ticket code: %w", err)
	}
	return TicketPrefix + body + check, nil
}

func IsTicketCode(s string) bool {
	digits, ok := strings.CutPrefix(strings.ToUpper(s), TicketPrefix)
	if !ok || len(digits) != ticketDigits+1 {
		return false
	}
	return goluhn.Validate(digits) == nil
}
