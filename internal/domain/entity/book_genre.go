package entity

import (
	"fmt"
	"strings"
)

type BookGenre int

const (
	BookGenreHorror BookGenre = iota
	BookGenreScifi
	BookGenreRomance
	BookGenreReligious
	BookGenreBiographies
)

// BookGenreUnknown never passes validation.
const BookGenreUnknown BookGenre = -1

var bookGenreNames = map[BookGenre]string{
	BookGenreHorror:      "Horror",
	BookGenreScifi:       "Scifi",
	BookGenreRomance:     "Romance",
	BookGenreReligious:   "Religious",
	BookGenreBiographies: "Biographies",
}

// BookGenres lists every genre in declaration order.
func BookGenres() []BookGenre {
	return []BookGenre{BookGenreHorror, BookGenreScifi, BookGenreRomance, BookGenreReligious, BookGenreBiographies}
}

func (g BookGenre) String() string {
	if name, ok := bookGenreNames[g]; ok {
		return name
	}
	return fmt.Sprintf("BookGenre(%d)", int(g))
}

func (g BookGenre) IsValid() bool {
	_, ok := bookGenreNames[g]
	return ok
}

// ParseBookGenre matches genre names case-insensitively. Unmatched input
// yields BookGenreUnknown alongside the error.
func ParseBookGenre(s string) (BookGenre, error) {
	for g, name := range bookGenreNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return g, nil
		}
	}
	return BookGenreUnknown, fmt.Errorf("unknown book genre %q", s)
}
