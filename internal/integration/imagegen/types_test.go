package imagegen

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractImageFromCamelCaseResponse(t *testing.T) {
	creative := []byte("png bytes")

	// The API emits canonical proto-JSON, so the part keys are camelCase.
	payload := `{
		"candidates": [{
			"content": {
				"parts": [
					{"text": "here is your ad"},
					{"inlineData": {"mimeType": "image/png", "data": "` +
		base64.StdEncoding.EncodeToString(creative) + `"}}
				]
			},
			"finishReason": "STOP"
		}]
	}`

	var resp geminiResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))

	img, err := extractImage(&resp)
	require.NoError(t, err)
	assert.Equal(t, creative, img)
}

func TestExtractImageNoImageParts(t *testing.T) {
	payload := `{"candidates": [{"content": {"parts": [{"text": "sorry, text only"}]}}]}`

	var resp geminiResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))

	_, err := extractImage(&resp)
	assert.ErrorContains(t, err, "no image data")
}

func TestRequestMarshalsCamelCase(t *testing.T) {
	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{
			{Text: "prompt"},
			{InlineData: &geminiBlobData{MIMEType: "image/jpeg", Data: "aGk="}},
		}}},
		GenerationConfig: &generationConfig{ResponseModalities: []string{"IMAGE"}},
	}

	data, err := json.Marshal(body)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"inlineData"`)
	assert.Contains(t, string(data), `"mimeType"`)
	assert.Contains(t, string(data), `"responseModalities"`)
	assert.NotContains(t, string(data), `"inline_data"`)
}
