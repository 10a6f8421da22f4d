// Package translator converts GLSL ES 3.00 sources into the dialect of the
// active OpenGL context.
package translator

import (
	"context"
	"fmt"
	"sync"

	"github.com/richinsley/hexwater/graphics"
	gst "github.com/richinsley/goshadertranslator"
)

// Translation is the output of translating one shader stage.
type Translation struct {
	Code string
	// Names maps each uniform name in the input to its name in Code.
	Names map[string]string
}

// Translator translates GLSL ES 3.00 source for one shader stage.
type Translator interface {
	Translate(src string, stage graphics.Stage) (Translation, error)
}

var (
	sharedOnce sync.Once
	shared     *gst.ShaderTranslator
	sharedErr  error
)

// getTranslator returns the process-wide translator, created on first use.
func getTranslator() (*gst.ShaderTranslator, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = gst.NewShaderTranslator(context.Background())
	})
	return shared, sharedErr
}

// GST translates through goshadertranslator into GLSL 4.10 core, or ESSL
// when the target context is OpenGL ES.
type GST struct {
	t    *gst.ShaderTranslator
	gles bool
}

// New returns a translator for a desktop GL context, or for a GLES context
// when gles is set.
func New(gles bool) (*GST, error) {
	t, err := getTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}
	return &GST{t: t, gles: gles}, nil
}

func (g *GST) Translate(src string, stage graphics.Stage) (Translation, error) {
	outputFormat := gst.OutputFormatGLSL410
	if g.gles {
		outputFormat = gst.OutputFormatESSL
	}
	out, err := g.t.TranslateShader(src, stage.String(), gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return Translation{}, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		names[name] = v.MappedName
	}
	return Translation{Code: out.Code, Names: names}, nil
}
