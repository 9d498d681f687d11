package zwo

// Mid-zone power for Zwift's seven training zones, in percent of FTP.
var zonePower = map[int]float64{
	1: 48,
	2: 65,
	3: 81,
	4: 91,
	5: 100,
	6: 113,
	7: 128,
}

// ZonePower returns the mid-zone percent of FTP for zone 1..7.
func ZonePower(zone int) (float64, bool) {
	p, ok := zonePower[zone]
	return p, ok
}
