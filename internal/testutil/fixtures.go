// Package testutil provides trip fixtures, a table builder and a seeded trip cache for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/bikeshare/internal/config"
)

// ChicagoCSV is a small Chicago trip file with every optional column.
// Start hours are all distinct (earliest 8), January and June tie on month,
// and 1992 is the most common birth year.
const ChicagoCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
1423854,2017-06-23 15:09:32,2017-06-23 15:14:53,321,Wood St & Hubbard St,Damen Ave & Chicago Ave,Subscriber,Male,1992.0
955915,2017-05-25 18:19:03,2017-05-25 18:45:53,1610,Theater on the Lake,Sheffield Ave & Waveland Ave,Subscriber,Female,1992.0
9031,2017-01-04 08:27:49,2017-01-04 08:34:45,416,May St & Taylor St,Wood St & Taylor St,Subscriber,Male,1981.0
304487,2017-03-06 13:49:38,2017-03-06 13:55:28,350,Christiana Ave & Lawrence Ave,St. Louis Ave & Balmoral Ave,Subscriber,,
45207,2017-01-17 14:53:07,2017-01-17 15:02:11,534,Clark St & Randolph St,Desplaines St & Jackson Blvd,Customer,,
1473887,2017-06-26 09:01:20,2017-06-26 09:11:06,586,Clinton St & Washington Blvd,Canal St & Madison St,Subscriber,Male,1990.0
`

// WashingtonCSV has no Gender or Birth Year columns.
const WashingtonCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type
1621326,2017-06-21 08:36:34,2017-06-21 08:44:43,489.066,14th & Belmont St NW,15th & K St NW,Subscriber
482740,2017-03-11 10:40:00,2017-03-11 10:46:00,402.549,Yuma St & Tenley Circle NW,Connecticut Ave & Yuma St NW,Subscriber
`

// CityFiles maps file names under the data dir to their contents.
type CityFiles map[string]string

// DefaultCityFiles writes Chicago and Washington but leaves New York City missing.
func DefaultCityFiles() CityFiles {
	return CityFiles{
		"chicago.csv":    ChicagoCSV,
		"washington.csv": WashingtonCSV,
	}
}

// WriteDataDir writes files into a fresh temp dir and returns its path.
func WriteDataDir(t *testing.T, files CityFiles) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

// SetupConfig returns the default configuration pointed at a temp data dir holding files.
// Progress output is disabled and the trip cache lives in another temp dir.
func SetupConfig(t *testing.T, files CityFiles) config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.DataDir = WriteDataDir(t, files)
	cfg.DatabasePath = filepath.Join(t.TempDir(), "trips.db")
	cfg.Progress = false
	return cfg
}
