// Package voicehttp serves the voice conversation pipeline to a browser
// front-end.
//
// Routes:
//
//	POST /speech-to-speech   multipart: audio, source_lang, gender
//	POST /speech-translate   multipart: audio, source_lang, target_lang, gender
//	GET  /response-audio     latest synthesized reply (audio/wav)
//	GET  /languages          supported languages
//	GET  /turns              recent turns, newest first
//	GET  /healthz            liveness
//
// The reply audio of the last successful turn is written to a fixed key in
// the artifact store and fetched by the browser with a second request.
package voicehttp
