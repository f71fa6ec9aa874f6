// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It exposes RepositoryManager for listing the paths git reports as unmerged
// and for staging files once their conflict markers have been resolved.
package gitrepo
