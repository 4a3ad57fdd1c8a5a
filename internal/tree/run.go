package tree

// Result is the rendered listing of a Run call. Counts are zero unless
// Options.CountEntries is set.
type Result struct {
	Text   string
	Counts Counts
}

// Run builds the tree rooted at options.Path and renders it.
func Run(options Options) (Result, error) {
	builtTree, buildError := Build(options.Path, options)
	if buildError != nil {
		return Result{}, buildError
	}
	return Result{Text: Render(builtTree), Counts: builtTree.Counts()}, nil
}
