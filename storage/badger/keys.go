package badger

import "fmt"

// Key prefixes for different data types
const (
	vectorPrefix = "propvec"
)

// makeVectorKey generates a key for a proposal embedding by folder name.
func makeVectorKey(folderName string) []byte {
	return []byte(fmt.Sprintf("%s:%s", vectorPrefix, folderName))
}
