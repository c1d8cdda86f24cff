// Package response parses the marker-delimited text a language model
// returns into a core.StructuredAnswer.
//
// The model is asked to wrap its reasoning in <context_analysis> tags and
// its answer in <response> tags. Replies are untrusted, so parsing never
// fails:
//
//   - Each segment is the first <tag>...</tag> match, trimmed.
//   - An answer with an opening tag but no closing tag (a truncated reply)
//     is everything after the opening tag, trimmed.
//   - A reply with no answer tag at all yields core.AnswerNotFound.
//   - Missing reasoning yields an empty string.
//
// Evidence always comes from the passages the reply was produced from,
// never from the reply text.
package response
