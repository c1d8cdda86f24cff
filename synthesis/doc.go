// Package synthesis turns a question and its retrieved passages into a raw
// completion from a language model.
//
// The Synthesizer renders a prompt.Template with the question and the
// passage texts, then sends it to an ai.Completer at temperature 0 with a
// bounded output length. Two modes are supported:
//
//   - ModeCompact sends every passage in one prompt (one call).
//   - ModeRefine splits the passages into batches and calls the model once
//     per batch, passing the previous reply back as existing_answer so the
//     model can revise it. The same template is used for every call.
//
// An empty passage list still produces exactly one call with an empty
// context. Completer failures are returned as core.ErrCompletionService,
// joined with core.ErrTimeout when a deadline expired. Nothing is retried.
package synthesis
