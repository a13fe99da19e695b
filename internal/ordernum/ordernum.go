// Package ordernum builds and parses listing order numbers.
//
// An order number is a kind prefix (C for cargo, V for truck), the owner's company code and a
// zero padded 6 digit sequence. Archive records reuse the number of their listing with an "_1"
// suffix.
package ordernum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	CargoPrefix   = "C"
	TruckPrefix   = "V"
	ArchiveSuffix = "_1"

	sequenceDigits = 6
	maxSequence    = 999999
)

var pattern = regexp.MustCompile(`^[CV][A-Za-z0-9]+\d{6}(_1)?$`)

// Valid reports whether s is a well formed live or archive order number.
func Valid(s string) bool {
	return pattern.MatchString(s)
}

// CompanyCode keeps only the digits of a registered company identifier.
func CompanyCode(identifier string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, identifier)
}

// Prefix joins the kind prefix and company code, e.g. "C123".
func Prefix(kindPrefix, companyCode string) string {
	return kindPrefix + companyCode
}

// Next returns the number following the highest sequence seen among live listings and archive
// records for prefix.
func Next(prefix string, liveMax, archiveMax int) (string, error) {
	n := liveMax
	if archiveMax > n {
		n = archiveMax
	}
	n++
	if n > maxSequence {
		return "", fmt.Errorf("order number sequence exhausted for prefix %s", prefix)
	}
	return fmt.Sprintf("%s%0*d", prefix, sequenceDigits, n), nil
}

// Archive returns the archive record number for a live order number.
func Archive(orderNumber string) string {
	return orderNumber + ArchiveSuffix
}

// Sequence extracts the 6 digit sequence that follows prefix in a live or archive number.
func Sequence(prefix, orderNumber string) (int, bool) {
	rest, ok := strings.CutPrefix(orderNumber, prefix)
	if !ok {
		return 0, false
	}
	rest = strings.TrimSuffix(rest, ArchiveSuffix)
	if len(rest) != sequenceDigits {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SequencePattern is a POSIX regular expression that matches live numbers of prefix.
// Company codes are digits only, so prefix needs no escaping.
func SequencePattern(prefix string) string {
	return "^" + prefix + "[0-9]{6}$"
}

// ArchiveSequencePattern matches archive record numbers of prefix.
func ArchiveSequencePattern(prefix string) string {
	return "^" + prefix + "[0-9]{6}" + ArchiveSuffix + "$"
}
