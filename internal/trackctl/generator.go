package trackctl

import (
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/okian/trackboard/internal/domain/model"
)

// Ranges for generated athletes.
const (
	randomFloatDivisor = 1000000
	minAge             = 17
	ageRange           = 22
	minTime            = 9.55
	timeRange          = 2.4
	maxAppearances     = 6
)

var (
	firstNames = []string{"Usain", "Tyson", "Asafa", "Yohan", "Justin", "Noah", "Fred", "Marcell", "Akani", "Ferdinand"}
	lastNames  = []string{"Bolt", "Gay", "Powell", "Blake", "Gatlin", "Lyles", "Kerley", "Jacobs", "Simbine", "Omanyala"}
	countries  = []string{"JAM", "USA", "ITA", "RSA", "KEN", "CAN", "GBR", "FRA", "NGR", "JPN"}
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func getRandomInt(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func pick(list []string) string {
	return list[getRandomInt(len(list))]
}

// generateAthletes returns n rows with plausible values in every column.
func generateAthletes(n int) []model.Row {
	rows := make([]model.Row, n)
	for i := range rows {
		appearances := 1 + getRandomInt(maxAppearances)
		rows[i] = model.Row{
			Name:        pick(firstNames) + " " + pick(lastNames),
			Age:         strconv.Itoa(minAge + getRandomInt(ageRange)),
			Time:        strconv.FormatFloat(minTime+getRandomFloat()*timeRange, 'f', 2, 64),
			Appearances: strconv.Itoa(appearances),
			Medals:      strconv.Itoa(getRandomInt(appearances + 1)),
			Country:     pick(countries),
		}
	}
	return rows
}
