package pipeline

// Step command builders assemble single external-compiler invocations.
// Argument order mirrors the external tools' CLI contract and must not be
// reordered: the mode flag (if any) comes first, then the input, then
// "-o <output>".

// CompilerCommand builds one compiler (asc) invocation.
type CompilerCommand struct {
	bin    string
	input  string
	output string
	idl    bool
}

// NewCompilerCommand starts a compiler invocation for a resolved binary path.
func NewCompilerCommand(bin string) *CompilerCommand {
	return &CompilerCommand{bin: bin}
}

// Input sets the canister source file.
func (c *CompilerCommand) Input(path string) *CompilerCommand {
	c.input = path
	return c
}

// Output sets the artifact path.
func (c *CompilerCommand) Output(path string) *CompilerCommand {
	c.output = path
	return c
}

// IDL switches the compiler to emit the interface description instead of
// the wasm binary.
func (c *CompilerCommand) IDL() *CompilerCommand {
	c.idl = true
	return c
}

// Args returns the assembled argument list.
func (c *CompilerCommand) Args() []string {
	var args []string
	if c.idl {
		args = append(args, "--idl")
	}
	if c.input != "" {
		args = append(args, c.input)
	}
	if c.output != "" {
		args = append(args, "-o", c.output)
	}
	return args
}

// Exec spawns exactly one child process and blocks until it exits.
func (c *CompilerCommand) Exec(r Runner) error {
	return r.Run(c.bin, c.Args()...)
}

// BindgenCommand builds one bindings-generator (didc) invocation.
type BindgenCommand struct {
	bin    string
	input  string
	output string
	js     bool
}

// NewBindgenCommand starts a bindgen invocation for a resolved binary path.
func NewBindgenCommand(bin string) *BindgenCommand {
	return &BindgenCommand{bin: bin}
}

// Input sets the interface description file.
func (b *BindgenCommand) Input(path string) *BindgenCommand {
	b.input = path
	return b
}

// Output sets the bindings artifact path.
func (b *BindgenCommand) Output(path string) *BindgenCommand {
	b.output = path
	return b
}

// JS selects JavaScript bindings output.
func (b *BindgenCommand) JS() *BindgenCommand {
	b.js = true
	return b
}

// Args returns the assembled argument list.
func (b *BindgenCommand) Args() []string {
	var args []string
	if b.js {
		args = append(args, "--js")
	}
	if b.input != "" {
		args = append(args, b.input)
	}
	if b.output != "" {
		args = append(args, "-o", b.output)
	}
	return args
}

// Exec spawns exactly one child process and blocks until it exits.
func (b *BindgenCommand) Exec(r Runner) error {
	return r.Run(b.bin, b.Args()...)
}
