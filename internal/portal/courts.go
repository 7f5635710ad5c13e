package portal

import "strings"

// Courts maps a county court name to the code its search forms submit.
var Courts = map[string]string{
	"Albany":      "1",
	"Allegany":    "2",
	"Bronx":       "3",
	"Broome":      "4",
	"Cattaraugus": "5",
	"Cayuga":      "6",
	"Chautauqua":  "7",
	"Chenango":    "9",
	"Clinton":     "10",
	"Columbia":    "11",
	"Cortland":    "12",
	"Delaware":    "13",
	"Dutchess":    "14",
	"Erie":        "15",
	"Essex":       "16",
	"Franklin":    "17",
	"Fulton":      "18",
	"Genesee":     "19",
	"Greene":      "20",
	"Herkimer":    "22",
	"Jefferson":   "23",
	"Kings":       "24",
	"Lewis":       "25",
	"Livingston":  "26",
	"Madison":     "27",
	"Monroe":      "28",
	"Montgomery":  "29",
	"Nassau":      "30",
	"New York":    "31",
	"Niagara":     "32",
	"Oneida":      "33",
	"Onondaga":    "34",
	"Ontario":     "35",
	"Orange":      "36",
	"Orleans":     "37",
	"Oswego":      "38",
	"Otsego":      "39",
	"Putnam":      "40",
	"Queens":      "41",
	"Rensselaer":  "42",
	"Richmond":    "43",
	"Rockland":    "44",
	"Saratoga":    "45",
	"Schenectady": "46",
	"Schoharie":   "47",
	"Schuyler":    "48",
	"Seneca":      "49",
	"St Lawrence": "50",
	"Steuben":     "51",
	"Suffolk":     "52",
	"Sullivan":    "53",
	"Tioga":       "54",
	"Tompkins":    "55",
	"Ulster":      "56",
	"Warren":      "57",
	"Washington":  "58",
	"Wayne":       "59",
	"Westchester": "60",
	"Wyoming":     "61",
	"Yates":       "62",
}

// CourtCode returns the court's name as listed in Courts and its code.
// name is matched case-insensitively.
func CourtCode(name string) (court, code string, ok bool) {
	if code, ok := Courts[name]; ok {
		return name, code, true
	}
	for n, code := range Courts {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return n, code, true
		}
	}
	return "", "", false
}
