// Command scribe is the transcription quality-control CLI: it imports
// machine transcription segments into a reviewable ledger, drives the
// interactive review session, and manages the surrounding pipeline files.
package main
