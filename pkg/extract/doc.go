// Package extract turns model output into cascade inputs: style hints (a
// partial catalog tier) and content blocks.
//
// Model output is untrusted text. Every parser here recovers instead of
// failing: unusable hints degrade to an empty tier and unusable blocks
// degrade to a single body_text block carrying the raw draft, with the
// reason reported alongside the result.
package extract
