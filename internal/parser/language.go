package parser

import "fmt"

// LanguageFile is the per-locale metadata document of a collection.
const LanguageFile = "language.xml"

// RewriteLanguage copies the language metadata at src to dst with the
// internal and display names replaced.
func RewriteLanguage(src, dst, name, displayName string) error {
	doc, err := ParseFile(src)
	if err != nil {
		return err
	}
	if err := doc.SetChild("Name", name); err != nil {
		return fmt.Errorf("rewrite language: %w", err)
	}
	if err := doc.SetChild("GUIString", displayName); err != nil {
		return fmt.Errorf("rewrite language: %w", err)
	}
	return doc.WriteFile(dst)
}
