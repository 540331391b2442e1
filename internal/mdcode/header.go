package mdcode

// InjectHeader returns a function that prepends header to a block's lines.
// StartIndex is left unchanged: the header is scaffolding whose length is
// recorded in HeaderLines and subtracted again when line numbers are
// corrected.
func InjectHeader(header []string) func(CodeBlock) CodeBlock {
	return func(block CodeBlock) CodeBlock {
		data := make([]string, 0, len(header)+len(block.Data))
		data = append(data, header...)
		data = append(data, block.Data...)

		block.Data = data
		block.HeaderLines += len(header)

		return block
	}
}
