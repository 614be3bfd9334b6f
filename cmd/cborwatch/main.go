package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	cborstream "github.com/thebagchi/cbor-stream"
	"github.com/thebagchi/cbor-stream/lib/cbor"
)

// patternsConfig is the shape of the optional -patterns YAML file: a flat
// list of dotted path patterns to register, first match wins.
type patternsConfig struct {
	Patterns []string `yaml:"patterns"`
}

func loadPatterns(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("patterns: cannot read %q: %w", path, err)
	}
	var cfg patternsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("patterns: cannot parse %q: %w", path, err)
	}
	return cfg.Patterns, nil
}

func main() {
	var (
		filename = flag.String("file", "", "CBOR file to watch (stdin if omitted)")
		patterns = flag.String("patterns", "", "YAML file listing path patterns to watch")
		chunk    = flag.Int("chunk", 4096, "bytes read per Feed call")
		trace    = flag.Bool("trace", false, "enable verbose per-byte tracing")
	)
	flag.Parse()

	cbor.EnableTrace = *trace

	session := uuid.New()
	fmt.Println("session:", session.String())

	var patternList []string
	if *patterns != "" {
		list, err := loadPatterns(*patterns)
		if err != nil {
			fmt.Println("Error: ", err)
			os.Exit(1)
		}
		patternList = list
	}

	ctx := cbor.New(func(c *cbor.Context, v *cbor.Value) int {
		printEvent(session, v)
		return 0
	}, patternList)
	defer ctx.Close()

	var err error
	if *filename == "" {
		err = cborstream.Stream(os.Stdin, *chunk, ctx)
	} else {
		err = cborstream.ParseFile(*filename, *chunk, ctx)
	}
	if err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}

func printEvent(session uuid.UUID, v *cbor.Value) {
	line := fmt.Sprintf("[%s] %-12s path=%q", session.String()[:8], v.Code, v.Path)
	switch v.Code {
	case cbor.EventUint:
		line += fmt.Sprintf(" uint=%d", v.Uint)
	case cbor.EventInt:
		line += fmt.Sprintf(" int=%d", v.Int)
	case cbor.EventFloat16:
		line += fmt.Sprintf(" float16=0x%04x", v.Uint)
	case cbor.EventFloat32:
		line += fmt.Sprintf(" float32=%v", v.Float32)
	case cbor.EventFloat64:
		line += fmt.Sprintf(" float64=%v", v.Float64)
	case cbor.EventSimple:
		line += fmt.Sprintf(" simple=%d", v.Simple)
	case cbor.EventTagStart:
		line += fmt.Sprintf(" tag=%d", v.Tag)
	case cbor.EventStrChunk, cbor.EventStrEnd, cbor.EventBlobChunk, cbor.EventBlobEnd:
		line += fmt.Sprintf(" bytes=%d", len(v.Bytes))
	}
	if v.PathMatch != 0 {
		line += fmt.Sprintf(" match=%d wildcards=%v", v.PathMatch, v.Wildcards)
	}
	fmt.Println(line)
}
