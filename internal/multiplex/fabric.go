package multiplex

// Fabric interleaves items in stripes (spec.md §4.5 "Fabric layout"). The
// active set is an ordered slice, not a map: its insertion order is the
// deterministic domain next_bounded draws index into, and that ordering
// must survive item removal identically on write and read — the subtlest
// invariant this package has to preserve (spec.md calls it out explicitly).
type Fabric struct{}

func (Fabric) Write(ctx *WriteContext) error {
	n := len(ctx.Items)
	cursor := make([]int, n)
	active := make([]int, n)
	for i := range active {
		active[i] = i
	}

	for len(active) > 0 {
		pos, err := pickActive(ctx.Entropy, len(active))
		if err != nil {
			return err
		}
		itemIdx := active[pos]
		remaining := len(ctx.Items[itemIdx].Data) - cursor[itemIdx]

		s, err := stripeLen(ctx.Entropy, ctx.MinStripe, ctx.MaxStripe, remaining)
		if err != nil {
			return err
		}

		span := ctx.Items[itemIdx].Data[cursor[itemIdx] : cursor[itemIdx]+s]
		if err := copyExactly(ctx.Output, span); err != nil {
			return err
		}
		cursor[itemIdx] += s

		if cursor[itemIdx] == len(ctx.Items[itemIdx].Data) {
			active = removeOrdered(active, pos)
		}
	}
	return nil
}

func (Fabric) Read(ctx *ReadContext) error {
	n := len(ctx.Items)
	cursor := make([]int, n)
	active := make([]int, n)
	for i := range active {
		active[i] = i
	}

	for len(active) > 0 {
		pos, err := pickActive(ctx.Entropy, len(active))
		if err != nil {
			return err
		}
		itemIdx := active[pos]
		remaining := ctx.Items[itemIdx].Length - cursor[itemIdx]

		s, err := stripeLen(ctx.Entropy, ctx.MinStripe, ctx.MaxStripe, remaining)
		if err != nil {
			return err
		}

		buf := make([]byte, s)
		if err := readExactly(ctx.Input, buf); err != nil {
			return err
		}
		if _, err := ctx.Items[itemIdx].Buf.Write(buf); err != nil {
			return err
		}
		cursor[itemIdx] += s

		if cursor[itemIdx] == ctx.Items[itemIdx].Length {
			active = removeOrdered(active, pos)
		}
	}
	return nil
}

// pickActive draws an index into an active set of size n, consuming no
// entropy at all when only one item remains (spec.md: "If >1 item is
// still incomplete, uses next_bounded...").
func pickActive(entropy interface {
	NextBounded(int32) (int32, error)
}, n int) (int, error) {
	if n <= 1 {
		return 0, nil
	}
	idx, err := entropy.NextBounded(int32(n))
	if err != nil {
		return 0, err
	}
	return int(idx), nil
}

func stripeLen(entropy interface {
	NextInRange(int32, int32) (int32, error)
}, min, max, remaining int) (int, error) {
	s, err := entropy.NextInRange(int32(min), int32(max+1))
	if err != nil {
		return 0, err
	}
	if int(s) > remaining {
		s = int32(remaining)
	}
	return int(s), nil
}

// removeOrdered deletes the element at pos while preserving the relative
// order of every other element.
func removeOrdered(active []int, pos int) []int {
	out := make([]int, 0, len(active)-1)
	out = append(out, active[:pos]...)
	out = append(out, active[pos+1:]...)
	return out
}
