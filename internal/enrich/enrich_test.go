package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForMIMEDispatch(t *testing.T) {
	assert.IsType(t, &AudioEnrichment{}, ForMIME("audio/mpeg"))
	assert.IsType(t, &AudioEnrichment{}, ForMIME("audio/flac"))
	assert.IsType(t, &VideoEnrichment{}, ForMIME("video/mp4"))
	assert.Nil(t, ForMIME("text/plain"))
	assert.Nil(t, ForMIME("application/pdf"))
	assert.Nil(t, ForMIME("image/png"))
}
