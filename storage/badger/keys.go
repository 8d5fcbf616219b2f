package badger

import (
	"fmt"

	"github.com/poiesic/scholarit/core"
)

// Key prefixes for different data types
const (
	paperPrefix = "paprec"
)

// makePaperKey generates a key for a paper by its content-derived ID.
func makePaperKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", paperPrefix, id))
}
