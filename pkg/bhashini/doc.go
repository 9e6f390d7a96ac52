// Package bhashini is a client for the Bhashini (Dhruva) inference pipeline
// and the ULCA model registry behind it.
//
// Every service call is one POST of a pipeline document to the same
// endpoint; the task list inside the document selects what runs:
//
//	client := bhashini.NewClient(pipelineURL,
//	    bhashini.WithUserID(userID),
//	    bhashini.WithAPIKey(apiKey),
//	    bhashini.WithAuthToken(token),
//	)
//
//	res, err := client.ASR.Transcribe(ctx, &bhashini.ASRRequest{
//	    Audio:     wavBase64,
//	    Language:  "hi",
//	    ServiceID: "bhashini/ai4bharat/conformer-multilingual-asr",
//	})
//
// Services:
//
//   - client.ASR: speech to text (taskType asr)
//   - client.TTS: text to speech (taskType tts)
//   - client.Translation: text translation (taskType translation)
//   - client.LangDetect: spoken language identification (audio-lang-detection)
//   - client.Chain: ASR, translation and TTS in a single pipeline call
//   - client.Registry: supported languages and pairs from ULCA
//
// # Errors
//
// Non-2xx responses are returned as *Error. A 2xx response that lacks the
// field a service needs wraps ErrMissingField:
//
//	if errors.Is(err, bhashini.ErrMissingField) {
//	    // service answered but produced nothing usable
//	}
package bhashini
