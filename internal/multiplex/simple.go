package multiplex

// Simple concatenates items in a CS-PRNG-permuted order with no padding
// and no interleaving (spec.md §4.5 "Simple layout").
type Simple struct{}

func (Simple) Write(ctx *WriteContext) error {
	order, err := fisherYates(len(ctx.Items), ctx.Entropy)
	if err != nil {
		return err
	}
	for _, idx := range order {
		if err := copyExactly(ctx.Output, ctx.Items[idx].Data); err != nil {
			return err
		}
	}
	return nil
}

func (Simple) Read(ctx *ReadContext) error {
	order, err := fisherYates(len(ctx.Items), ctx.Entropy)
	if err != nil {
		return err
	}
	for _, idx := range order {
		item := ctx.Items[idx]
		buf := make([]byte, item.Length)
		if err := readExactly(ctx.Input, buf); err != nil {
			return err
		}
		if _, err := item.Buf.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
