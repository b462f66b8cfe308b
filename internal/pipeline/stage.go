package pipeline

// Stage identifies one of the three ordered pipeline steps.
type Stage string

const (
	// StageCompile compiles canister source to the wasm binary artifact.
	StageCompile Stage = "compile-to-binary"
	// StageInterface compiles canister source to the interface description.
	StageInterface Stage = "compile-to-interface"
	// StageBindings generates language bindings from the interface description.
	StageBindings Stage = "interface-to-bindings"
)

// Artifact extensions substituted onto the output stem.
const (
	ExtBinary    = ".wasm"
	ExtInterface = ".did"
	ExtBindings  = ".js"
)

// Artifacts holds the three derived output paths for a build.
type Artifacts struct {
	Binary    string
	Interface string
	Bindings  string
}

// ArtifactsFor computes the deterministic artifact paths for an output stem.
func ArtifactsFor(outputStem string) Artifacts {
	return Artifacts{
		Binary:    outputStem + ExtBinary,
		Interface: outputStem + ExtInterface,
		Bindings:  outputStem + ExtBindings,
	}
}
