package similarity

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed data/*.txt
var standardFiles embed.FS

var (
	standardOnce  sync.Once
	standardCache map[string]*Table
	standardErr   error
)

// Standard returns one of the embedded matrices by name: "blosum62" for
// proteins or "dna" for nucleotides. The returned table is shared and must be
// treated as read-only.
func Standard(name string) (*Table, error) {
	standardOnce.Do(loadStandard)
	if standardErr != nil {
		return nil, standardErr
	}

	t, ok := standardCache[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown standard matrix %q (available: %s)",
			name, strings.Join(StandardNames(), ", "))
	}
	return t, nil
}

// StandardNames lists the embedded matrix names in sorted order.
func StandardNames() []string {
	entries, _ := standardFiles.ReadDir("data")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(names)
	return names
}

func loadStandard() {
	standardCache = make(map[string]*Table)
	for _, name := range StandardNames() {
		f, err := standardFiles.Open("data/" + name + ".txt")
		if err != nil {
			standardErr = fmt.Errorf("opening embedded matrix %s: %w", name, err)
			return
		}
		t, err := Parse(f)
		f.Close()
		if err != nil {
			standardErr = fmt.Errorf("parsing embedded matrix %s: %w", name, err)
			return
		}
		standardCache[name] = t
	}
}
