// Package schedule decodes compact weekly-schedule codes into atomic
// (day, block) slots.
//
// A schedule code is one or more whitespace-separated groups of the form
// <day-digits><shift><block-digits>, where day digits range over 2-7
// (Monday through Saturday), the shift letter is M, T or N (morning,
// afternoon, night) and block digits range over 1-6. A group expands to the
// cartesian product of its days and blocks: "24M12" covers Monday and
// Wednesday at blocks M1 and M2, four slots in total.
package schedule

import (
	"fmt"
	"strings"
)

// Block is the smallest indivisible unit a weekly schedule decomposes into:
// one day of the week paired with one shift block such as "M1".
type Block struct {
	Day  int    `json:"day"`
	Code string `json:"code"`
}

// ParseError reports the schedule token that violated the grammar.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid schedule token %q: %s", e.Token, e.Reason)
}

const shiftLetters = "MTN"

// Parse expands a raw schedule code into its atomic blocks. The result keeps
// input order and is not deduplicated. An empty or blank input is valid and
// yields no blocks (a demand with no weekly meeting).
func Parse(raw string) ([]Block, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return []Block{}, nil
	}

	blocks := make([]Block, 0, len(fields)*2)
	for _, token := range fields {
		expanded, err := parseToken(token)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, expanded...)
	}
	return blocks, nil
}

func parseToken(token string) ([]Block, error) {
	shiftIdx := strings.IndexAny(token, shiftLetters)
	if shiftIdx < 0 {
		return nil, &ParseError{Token: token, Reason: "missing shift letter (M, T or N)"}
	}
	if strings.IndexAny(token[shiftIdx+1:], shiftLetters) >= 0 {
		return nil, &ParseError{Token: token, Reason: "more than one shift letter"}
	}

	days := token[:shiftIdx]
	shift := token[shiftIdx : shiftIdx+1]
	slots := token[shiftIdx+1:]

	if days == "" {
		return nil, &ParseError{Token: token, Reason: "missing day digits"}
	}
	if slots == "" {
		return nil, &ParseError{Token: token, Reason: "missing block digits"}
	}

	var blocks []Block
	for _, day := range days {
		if day < '2' || day > '7' {
			return nil, &ParseError{Token: token, Reason: fmt.Sprintf("day %c out of range 2-7", day)}
		}
		for _, slot := range slots {
			if slot < '1' || slot > '6' {
				return nil, &ParseError{Token: token, Reason: fmt.Sprintf("block %c out of range 1-6", slot)}
			}
			blocks = append(blocks, Block{
				Day:  int(day - '0'),
				Code: shift + string(slot),
			})
		}
	}
	return blocks, nil
}
