// Package voicepipe chains speech recognition, a generative model and
// speech synthesis into a voice-in/voice-out conversation turn.
//
// A turn runs its stages strictly in sequence:
//
//	detect (optional) → asr → generate → tts
//
// The translation variant replaces generate with a machine translation
// step and speaks the result in the target language:
//
//	detect (optional) → asr → translate → tts
//
// Every stage must return a non-empty result. The first failure aborts the
// turn with a *StageError naming the stage; nothing is retried.
package voicepipe
