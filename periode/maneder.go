package periode

import "time"

// Month constructors, mirroring how case workers talk about periods.
// Mostly used by tests and fixtures.

func Januar(ar int) Maned    { return NyManed(ar, time.January) }
func Februar(ar int) Maned   { return NyManed(ar, time.February) }
func Mars(ar int) Maned      { return NyManed(ar, time.March) }
func April(ar int) Maned     { return NyManed(ar, time.April) }
func Mai(ar int) Maned       { return NyManed(ar, time.May) }
func Juni(ar int) Maned      { return NyManed(ar, time.June) }
func Juli(ar int) Maned      { return NyManed(ar, time.July) }
func August(ar int) Maned    { return NyManed(ar, time.August) }
func September(ar int) Maned { return NyManed(ar, time.September) }
func Oktober(ar int) Maned   { return NyManed(ar, time.October) }
func November(ar int) Maned  { return NyManed(ar, time.November) }
func Desember(ar int) Maned  { return NyManed(ar, time.December) }
