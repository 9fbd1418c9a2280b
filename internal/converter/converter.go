// File: internal/converter/converter.go
// Description: The conversion orchestrator. Picks the converter chain from
// the input and target formats and manages the temporary GraphML
// intermediate for chained conversions, guaranteeing its removal on every
// exit path.

package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/lucidconv/api/schemas"
	"github.com/xkilldash9x/lucidconv/internal/config"
	"github.com/xkilldash9x/lucidconv/internal/graphml"
	"github.com/xkilldash9x/lucidconv/internal/render"
	"github.com/xkilldash9x/lucidconv/internal/workflow"
	"github.com/xkilldash9x/lucidconv/internal/xmlrepair"
)

// InputFormat identifies a recognized input file kind.
type InputFormat string

const (
	InputJSON    InputFormat = "json"
	InputGraphML InputFormat = "graphml"
)

// Target format names accepted by Convert.
const (
	TargetGraphML = "graphml"
	TargetUML     = "uml"
	TargetCSV     = "csv"
	TargetPUML    = "puml"
)

// inputExtensions maps file extensions to input formats.
var inputExtensions = map[string]InputFormat{
	".json":    InputJSON,
	".graphml": InputGraphML,
	".xml":     InputGraphML,
}

// targetExtensions maps target format names to output extensions.
var targetExtensions = map[string]string{
	TargetGraphML: ".graphml",
	TargetUML:     ".uml",
	TargetCSV:     ".csv",
	TargetPUML:    ".puml",
}

// Options tunes a single conversion. Zero values fall back to the
// converter's configuration.
type Options struct {
	// OutputPath overrides the default output location (input path with
	// the target extension).
	OutputPath string
	// DiagramType selects the markup flavor: sequence/flowchart for uml,
	// class/activity for puml.
	DiagramType string
	// NoFix disables the XML repair ladder for this conversion.
	NoFix bool
}

// Result is delivered by RunAsync when a conversion finishes.
type Result struct {
	Path string
	Err  error
}

// Converter orchestrates conversions between the supported formats.
type Converter struct {
	cfg       config.ConverterConfig
	logger    *zap.Logger
	loader    *xmlrepair.Loader
	extractor *graphml.Extractor
}

// New creates a Converter. The logger is required; the core threads it
// explicitly instead of reaching for process-wide state.
func New(cfg config.ConverterConfig, logger *zap.Logger) (*Converter, error) {
	if logger == nil {
		return nil, fmt.Errorf("cannot initialize converter with nil logger")
	}
	logger = logger.Named("converter")
	return &Converter{
		cfg:       cfg,
		logger:    logger,
		loader:    xmlrepair.NewLoader(logger),
		extractor: graphml.NewExtractor(logger),
	}, nil
}

// Detect determines the input format from the file extension.
func Detect(path string) (InputFormat, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if format, ok := inputExtensions[ext]; ok {
		return format, nil
	}
	return "", &schemas.UnsupportedFormatError{Format: ext}
}

// Convert runs the conversion chain from inputPath to the target format and
// returns the path of the written output. The context is honored only at
// chain boundaries; an individual sub-conversion runs to completion.
func (c *Converter) Convert(ctx context.Context, inputPath, target string, opts Options) (string, error) {
	if _, err := os.Stat(inputPath); err != nil {
		if os.IsNotExist(err) {
			return "", &schemas.FileNotFoundError{Path: inputPath}
		}
		return "", err
	}

	ext, ok := targetExtensions[target]
	if !ok {
		return "", &schemas.UnsupportedFormatError{Format: target}
	}

	inputFormat, err := Detect(inputPath)
	if err != nil {
		return "", err
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ext
	}

	c.logger.Info("starting conversion",
		zap.String("input", inputPath),
		zap.String("input_format", string(inputFormat)),
		zap.String("target", target),
		zap.String("output", outputPath))

	switch {
	case inputFormat == InputJSON && target == TargetGraphML:
		err = c.jsonToGraphML(inputPath, outputPath)

	case inputFormat == InputJSON:
		// JSON goes to the diagram formats through a GraphML intermediate.
		err = c.viaIntermediate(ctx, inputPath, outputPath, target, opts)

	case inputFormat == InputGraphML && target != TargetGraphML:
		err = c.graphMLToDiagram(inputPath, outputPath, target, opts)

	default:
		return "", fmt.Errorf("conversion from %s to %s is not supported", inputFormat, target)
	}

	if err != nil {
		return "", err
	}
	c.logger.Info("conversion finished", zap.String("output", outputPath))
	return outputPath, nil
}

// RunAsync runs one conversion to completion on its own goroutine so a
// responsive caller is never blocked. Cancellation is the caller's concern:
// not awaiting the channel abandons the result, it does not interrupt the
// conversion.
func (c *Converter) RunAsync(ctx context.Context, inputPath, target string, opts Options) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		path, err := c.Convert(ctx, inputPath, target, opts)
		ch <- Result{Path: path, Err: err}
	}()
	return ch
}

// viaIntermediate chains JSON -> GraphML -> diagram format through a
// uniquely named temporary artifact, removed on success and failure alike.
func (c *Converter) viaIntermediate(ctx context.Context, inputPath, outputPath, target string, opts Options) error {
	tempDir := c.cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	intermediate := filepath.Join(tempDir, fmt.Sprintf("lucidconv-%s.graphml", uuid.NewString()))
	defer func() {
		if err := os.Remove(intermediate); err != nil && !os.IsNotExist(err) {
			c.logger.Warn("failed to remove temporary intermediate",
				zap.String("path", intermediate), zap.Error(err))
		}
	}()

	if err := c.jsonToGraphML(inputPath, intermediate); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.graphMLToDiagram(intermediate, outputPath, target, opts)
}

// jsonToGraphML converts a workflow JSON file to a GraphML file.
func (c *Converter) jsonToGraphML(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	model, err := workflow.FromJSON(data)
	if err != nil {
		return err
	}
	out, err := graphml.EncodeBytes(model)
	if err != nil {
		return fmt.Errorf("failed to serialize GraphML: %w", err)
	}
	if err := ensureParentDir(outputPath); err != nil {
		return err
	}
	return os.WriteFile(outputPath, out, 0o644)
}

// graphMLToDiagram loads and extracts a GraphML file, then renders the
// requested diagram format.
func (c *Converter) graphMLToDiagram(inputPath, outputPath, target string, opts Options) error {
	doc, err := c.loadGraphML(inputPath, opts)
	if err != nil {
		return err
	}
	model, err := c.extractor.Extract(doc)
	if err != nil {
		return err
	}

	diagramType := opts.DiagramType
	if diagramType == "" {
		diagramType = c.cfg.DiagramType
	}

	if err := ensureParentDir(outputPath); err != nil {
		return err
	}

	if target == TargetCSV {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		return render.WriteCSV(f, render.LucidRows(model))
	}

	var content string
	switch {
	case target == TargetUML && strings.EqualFold(diagramType, "flowchart"):
		content = render.Flowchart(model)
	case target == TargetUML:
		content = render.Sequence(model)
	case target == TargetPUML && strings.EqualFold(diagramType, "activity"):
		content = render.PlantUMLActivity(model)
	case target == TargetPUML:
		content = render.PlantUMLClass(model)
	default:
		return &schemas.UnsupportedFormatError{Format: target}
	}
	return os.WriteFile(outputPath, []byte(content), 0o644)
}

func (c *Converter) loadGraphML(path string, opts Options) (*etree.Document, error) {
	if opts.NoFix || !c.cfg.AutoFix {
		return c.loader.LoadStrict(path)
	}
	return c.loader.Load(path)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
