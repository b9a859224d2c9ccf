// Package docx renders a document description into a WordprocessingML
// package (.docx).
//
// Resolved styles are applied as direct paragraph and run formatting so the
// output looks the same in any consumer. Headings and captions also carry
// the built-in paragraph style ids (Heading1..3, Caption) declared in
// styles.xml, which keeps the navigation pane and table-of-contents fields
// working in Word.
package docx
