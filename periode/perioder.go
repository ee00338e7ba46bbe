package periode

import "sort"

// =============================================================================
// OPERATIONS ON LISTS OF PERIODER
// =============================================================================

// ManederI returns the distinct months covered by the list, sorted.
// The input may be unsorted, non-contiguous and contain duplicates.
func ManederI(perioder []Periode) []Maned {
	sett := make(map[Maned]bool)
	for _, p := range perioder {
		for _, m := range p.Maneder() {
			sett[m] = true
		}
	}
	maneder := make([]Maned, 0, len(sett))
	for m := range sett {
		maneder = append(maneder, m)
	}
	sort.Slice(maneder, func(i, j int) bool { return maneder[i].For(maneder[j]) })
	return maneder
}

// MinsteAntallSammenhengendePerioder merges the list into the minimal set of
// sorted, non-overlapping, contiguous periods covering the same months.
func MinsteAntallSammenhengendePerioder(perioder []Periode) []Periode {
	maneder := ManederI(perioder)
	if len(maneder) == 0 {
		return nil
	}
	var resultat []Periode
	fra, til := maneder[0], maneder[0]
	for _, m := range maneder[1:] {
		if m == til.Pluss(1) {
			til = m
			continue
		}
		resultat = append(resultat, Periode{fra: fra, til: til})
		fra, til = m, m
	}
	return append(resultat, Periode{fra: fra, til: til})
}

// MinusPerioder removes every month of subtrahend from the months of minuend
// and merges what remains.
func MinusPerioder(minuend, subtrahend []Periode) []Periode {
	fjernes := make(map[Maned]bool)
	for _, m := range ManederI(subtrahend) {
		fjernes[m] = true
	}
	var rest []Periode
	for _, m := range ManederI(minuend) {
		if !fjernes[m] {
			rest = append(rest, m.Periode())
		}
	}
	return MinsteAntallSammenhengendePerioder(rest)
}

// HarOverlappende returns true if any two periods in the list share a month.
func HarOverlappende(perioder []Periode) bool {
	antall := 0
	for _, p := range perioder {
		antall += p.AntallManeder()
	}
	return antall != len(ManederI(perioder))
}

// ErSammenhengende returns true if the list has no gaps. An empty list is
// considered contiguous.
func ErSammenhengende(perioder []Periode) bool {
	maneder := ManederI(perioder)
	if len(maneder) == 0 {
		return true
	}
	return len(maneder) == maneder[len(maneder)-1].indeks()-maneder[0].indeks()+1
}

// MinAndMax returns the smallest period spanning the whole list.
// The list must be non-empty.
func MinAndMax(perioder []Periode) (Periode, bool) {
	if len(perioder) == 0 {
		return Periode{}, false
	}
	fra, til := perioder[0].fra, perioder[0].til
	for _, p := range perioder[1:] {
		if p.fra.For(fra) {
			fra = p.fra
		}
		if til.For(p.til) {
			til = p.til
		}
	}
	return Periode{fra: fra, til: til}, true
}

// InneholderAllePerioder returns true if every month of other is covered by
// the months of perioder. An empty other is trivially covered.
func InneholderAllePerioder(perioder, other []Periode) bool {
	dekket := make(map[Maned]bool)
	for _, m := range ManederI(perioder) {
		dekket[m] = true
	}
	for _, m := range ManederI(other) {
		if !dekket[m] {
			return false
		}
	}
	return true
}
