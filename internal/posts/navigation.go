package posts

// Navigation computes the prev/next context for the post with the given slug
// inside a date-descending sorted collection. Next is the entry immediately
// before the target (more recent), Prev the entry immediately after (older);
// the naming follows reading order rather than calendar order. Both are nil
// when the slug is absent, and either is nil at a collection boundary.
func Navigation(sorted []*Post, slug string) NavigationContext {
	idx := -1
	for i, post := range sorted {
		if post.Slug == slug {
			idx = i
			break
		}
	}

	if idx < 0 {
		return NavigationContext{}
	}

	var nav NavigationContext
	if idx > 0 {
		nav.Next = sorted[idx-1].Ref()
	}
	if idx < len(sorted)-1 {
		nav.Prev = sorted[idx+1].Ref()
	}
	return nav
}
