// Package importer turns bank statement exports into movement drafts.
package importer

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/MrJamesThe3rd/tally/internal/movement"
)

var ErrUnknownBank = errors.New("unknown bank")

type Bank string

const (
	BankCGD     Bank = "cgd"
	BankGeneric Bank = "generic"
)

// Parser reads one statement and returns its lines as drafts. Drafts carry
// no category, origin or state; those are settled on import.
type Parser interface {
	Parse(r io.Reader) ([]movement.CreateParams, error)
}

type Service struct {
	parsers map[Bank]Parser
}

func NewService(parsers map[Bank]Parser) *Service {
	return &Service{parsers: parsers}
}

func (s *Service) Banks() []Bank {
	banks := make([]Bank, 0, len(s.parsers))
	for b := range s.parsers {
		banks = append(banks, b)
	}

	slices.Sort(banks)

	return banks
}

func (s *Service) Import(bank Bank, r io.Reader) ([]movement.CreateParams, error) {
	p, ok := s.parsers[bank]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBank, bank)
	}

	return p.Parse(r)
}
