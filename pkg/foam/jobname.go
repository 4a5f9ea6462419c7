package foam

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// jobNameTimeDigits is how many digits of a time value survive in a job name.
const jobNameTimeDigits = 4

// JobName builds a distinct, human-scannable case name for one solver job
// within a sweep: iteration n, the time window, the slice id and the sweep
// uuid. Times are compressed to a few significant digits; the uuid keeps the
// name unique when windows collide.
func JobName(n int, t0, t1 float64, uid uuid.UUID, id int) string {
	return fmt.Sprintf("%d-%s-%s-%d-%s",
		n, stringifyTime(t0), stringifyTime(t1), id, hex.EncodeToString(uid[:]))
}

// trimZeros shifts t so its leading digit sits in the ones place:
// 0.0012345 becomes 1.2345, 123.45 becomes 1.2345.
func trimZeros(t float64) float64 {
	if t == 0 {
		return 0
	}
	return t * math.Pow(10, -math.Floor(math.Log10(t)))
}

// stringifyTime renders t as jobNameTimeDigits digits with the decimal point
// dropped: 0.0012345 becomes "1234".
func stringifyTime(t float64) string {
	s := strconv.FormatFloat(trimZeros(t), 'f', jobNameTimeDigits-1, 64)
	return strings.ReplaceAll(s, ".", "")
}
