package ports

// Hasher computes file fingerprints for change detection.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Fingerprint computes the content fingerprint of a single file.
	Fingerprint(path string) (string, error)

	// FingerprintAll computes fingerprints for every path, resolved
	// against root. Paths map to their fingerprint; a missing file is an
	// error.
	FingerprintAll(root string, paths []string) (map[string]string, error)
}
