package algorithm

import (
	"time"

	"github.com/aretw0/delta/internal/compiler"
	"github.com/aretw0/delta/pkg/domain"
)

var defaultsDate = time.Date(2019, time.October, 6, 0, 0, 0, 0, time.UTC)

var defaultRecords = []domain.Record{
	{
		RemoteID: 1,
		Name:     "Even or odd",
		Icon:     "parity",
		Lines: `input "n" default "42"
if "n % 2 = 0" {
    print "even"
} else {
    print "odd"
}`,
	},
	{
		RemoteID: 2,
		Name:     "Fibonacci",
		Icon:     "sequence",
		Lines: `input "count" default "10"
set "a" to "0"
set "b" to "1"
set "i" to "0"
while "i < count" {
    print "a"
    set "c" to "a + b"
    set "a" to "b"
    set "b" to "c"
    set "i" to "i + 1"
}`,
	},
	{
		RemoteID: 3,
		Name:     "Sum of a list",
		Icon:     "sum",
		Lines: `input "values" default "{1, 2, 3, 4}"
set "sum" to "0"
for "v" in "values" {
    set "sum" to "sum + v"
}
print "sum"`,
	},
	{
		RemoteID: 4,
		Name:     "Pythagorean theorem",
		Icon:     "triangle",
		Lines: `input "a" default "3"
input "b" default "4"
set "c" to "(a ^ 2 + b ^ 2) ^ 0.5"
print "c"`,
	},
}

// Defaults returns the algorithms offered as downloads when none are stored
// yet. They are not owned and carry their public remote IDs.
func Defaults() []*Algorithm {
	out := make([]*Algorithm, 0, len(defaultRecords))
	for _, r := range defaultRecords {
		a := New(0, r.RemoteID, false, r.Name, defaultsDate, r.Icon, compiler.MustCompile(r.Lines))
		a.Public = true
		out = append(out, a)
	}
	return out
}
