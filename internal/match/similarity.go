package match

// Similarity computes the Ratcliff/Obershelp similarity ratio between two
// strings after normalizing both: find the longest contiguous matching block,
// recurse on the unmatched left and right remainders, and return
// 2*M / (len(a) + len(b)) where M is the total matched length.
//
// The result is in [0, 1], symmetric, and 1.0 for identical inputs. Two empty
// strings are identical by convention. When equally long matching blocks exist
// at different positions, the leftmost one wins.
func Similarity(a, b string) float64 {
	ra := []rune(Normalize(a))
	rb := []rune(Normalize(b))

	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	return 2 * float64(matchedLength(ra, rb)) / float64(total)
}

// matchedLength sums the lengths of all matching blocks between a and b.
func matchedLength(a, b []rune) int {
	ai, bi, n := longestMatch(a, b)
	if n == 0 {
		return 0
	}
	return n + matchedLength(a[:ai], b[:bi]) + matchedLength(a[ai+n:], b[bi+n:])
}

// longestMatch finds the longest contiguous block common to a and b,
// returning its start offsets and length. Ties break toward the smallest
// offset in a, then in b.
func longestMatch(a, b []rune) (ai, bi, size int) {
	// lengths[j+1] holds the length of the common suffix ending at a[i], b[j]
	// for the current row i; prev holds the previous row.
	prev := make([]int, len(b)+1)
	lengths := make([]int, len(b)+1)

	for i := range a {
		for j := range b {
			if a[i] != b[j] {
				lengths[j+1] = 0
				continue
			}
			lengths[j+1] = prev[j] + 1
			if lengths[j+1] > size {
				size = lengths[j+1]
				ai = i - size + 1
				bi = j - size + 1
			}
		}
		prev, lengths = lengths, prev
	}

	return ai, bi, size
}
