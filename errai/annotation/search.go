package annotation

import "github.com/dhamidi/errai-ls/java"

// SearchResult pairs a matching annotation with the declaration carrying it.
type SearchResult struct {
	Annotation *java.AnnotationModel
	Owner      *Declaration
}

// FindAll returns every declaration of class and its supertypes annotated
// with fqn, in Walk order. The result is empty, never nil, for a nil class.
func FindAll(lookup java.ClassLookup, class *java.ClassModel, fqn string) []SearchResult {
	result := []SearchResult{}
	Walk(lookup, class, VisitorFunc(func(d *Declaration) bool {
		if ann := d.Annotation(fqn); ann != nil {
			result = append(result, SearchResult{Annotation: ann, Owner: d})
		}
		return true
	}))
	return result
}

// FindFirst returns the first match of FindAll.
func FindFirst(lookup java.ClassLookup, class *java.ClassModel, fqn string) (SearchResult, bool) {
	var found SearchResult
	ok := false
	Walk(lookup, class, VisitorFunc(func(d *Declaration) bool {
		if ann := d.Annotation(fqn); ann != nil {
			found = SearchResult{Annotation: ann, Owner: d}
			ok = true
			return false
		}
		return true
	}))
	return found, ok
}
