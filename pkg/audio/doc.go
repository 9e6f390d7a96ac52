// Package audio prepares recorded speech for the recognition services and
// checks synthesized speech before it is handed back to the caller.
//
// The speech services expect 16 kHz mono 16-bit PCM in a WAV container.
// Normalizer converts WAV input in process (decode, downmix, resample,
// encode) and hands every other container (webm, ogg, mp3 ...) to an
// external ffmpeg binary.
package audio
