package multiplex

// Frameshift orders items exactly as Simple does, but emits a
// pseudo-random-length padding span before and after each item (spec.md
// §4.5 "Frameshift layout"). Padding *length* is drawn from the same
// ordering entropy stream; padding *content* is drawn from a second,
// domain-separated stream so it never perturbs the ordering draws.
type Frameshift struct{}

func (Frameshift) Write(ctx *WriteContext) error {
	order, err := fisherYates(len(ctx.Items), ctx.Entropy)
	if err != nil {
		return err
	}
	for _, idx := range order {
		if err := writePad(ctx); err != nil {
			return err
		}
		if err := copyExactly(ctx.Output, ctx.Items[idx].Data); err != nil {
			return err
		}
		if err := writePad(ctx); err != nil {
			return err
		}
	}
	return nil
}

func writePad(ctx *WriteContext) error {
	n, err := ctx.Entropy.NextInRange(int32(ctx.MinPadding), int32(ctx.MaxPadding+1))
	if err != nil {
		return err
	}
	buf := make([]byte, n)
	if n > 0 {
		if err := ctx.PadContent.NextBytes(buf); err != nil {
			return err
		}
	}
	if err := copyExactly(ctx.Output, buf); err != nil {
		return err
	}
	ctx.Overhead += int(n)
	return nil
}

func (Frameshift) Read(ctx *ReadContext) error {
	order, err := fisherYates(len(ctx.Items), ctx.Entropy)
	if err != nil {
		return err
	}
	for _, idx := range order {
		if err := skipPad(ctx); err != nil {
			return err
		}
		item := ctx.Items[idx]
		buf := make([]byte, item.Length)
		if err := readExactly(ctx.Input, buf); err != nil {
			return err
		}
		if _, err := item.Buf.Write(buf); err != nil {
			return err
		}
		if err := skipPad(ctx); err != nil {
			return err
		}
	}
	return nil
}

func skipPad(ctx *ReadContext) error {
	n, err := ctx.Entropy.NextInRange(int32(ctx.MinPadding), int32(ctx.MaxPadding+1))
	if err != nil {
		return err
	}
	return discardExactly(ctx.Input, int(n))
}
