// Package armparams resolves ARM deployment parameters.
//
// Resolution runs in three steps that compose linearly:
//
//   - Merge combines parameter files, inline JSON objects and key=value tokens
//     into one ordered Parameters mapping, coercing key=value strings to the
//     type the template declares.
//   - FindMissing lists the template parameters that have no default and no
//     supplied value, in declaration order.
//   - PromptMissing asks a Prompter for each missing value, falling back to a
//     type-specific zero value when no interactive terminal is attached.
//
// Resolver wires the three together and produces the object embedded as the
// "parameters" field of a deployment request.
package armparams
