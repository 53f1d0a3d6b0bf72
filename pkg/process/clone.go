package process

import (
	"context"

	git "github.com/go-git/go-git/v5"
)

// cloneShallow clones the repository at url into dir at depth 1, single
// branch, no tags. The checkout only exists long enough to be scanned, so
// history and tags are dead weight across hundreds of repositories per run.
func cloneShallow(ctx context.Context, url, dir string) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	})
	return err
}
