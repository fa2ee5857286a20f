package operator

import (
	"fmt"

	"github.com/born-ml/microkernels/internal/kernel"
)

// Depth-to-space and space-to-depth are pixel-shuffle layout transforms.
// They carry no execution logic of their own: create validates the channel
// geometry, and setup synthesizes a fixed-rank shape/permutation/stride
// triple that the shared transpose path plans and runs.
//
// Channel strides are element counts between adjacent pixels, not dimension
// sizes: the input channel dimension of depth-to-space splits into
// block*block*outputChannels logical axes, but a caller may hand in a
// channel stride wider than that product to address a sub-tensor.

// createErrf logs a create diagnostic and returns an invalid parameter
// error for the given operator type.
func createErrf(typ Type, format string, a ...any) error {
	msg := "create " + typ.String() + ": " + fmt.Sprintf(format, a...)
	logger.Error("failed to create operator", "type", typ.String(), "detail", msg)
	return fmt.Errorf("%s: %w", msg, ErrInvalidParameter)
}

func initDepthToSpace(op *Operator, caps *kernel.Table, typ Type, family kernel.Flags,
	outputChannels, inputChannelStride, outputChannelStride, blockSize int, flags uint32) error {
	if caps == nil {
		logger.Error("failed to create operator: no capability table", "type", typ.String())
		return fmt.Errorf("create %s: %w", typ, ErrUninitialized)
	}
	if !caps.Supports(family) {
		logger.Error("failed to create operator: data type family not supported", "type", typ.String())
		return fmt.Errorf("create %s: %w", typ, ErrUnsupportedHardware)
	}
	if outputChannels <= 0 {
		return createErrf(typ, "number of output channels must be positive, got %d", outputChannels)
	}
	if outputChannelStride < outputChannels {
		return createErrf(typ, "output channel stride %d is smaller than the %d output channels",
			outputChannelStride, outputChannels)
	}
	if blockSize <= 1 {
		return createErrf(typ, "block size must be greater than 1, got %d", blockSize)
	}
	inputChannels := outputChannels * blockSize * blockSize
	if inputChannelStride < inputChannels {
		return createErrf(typ, "input channel stride %d is smaller than the %dx%dx%d input channels",
			inputChannelStride, blockSize, blockSize, outputChannels)
	}

	op.caps = caps
	op.typ = typ
	op.flags = flags
	op.channels = outputChannels
	op.inputPixelStride = inputChannelStride
	op.outputPixelStride = outputChannelStride
	op.blockSize = blockSize
	op.state = StateInvalid
	return nil
}

// NewDepthToSpaceNHWC creates a depth-to-space operator on NHWC layouts:
// input [N, H, W, blockSize²*outputChannels] becomes output
// [N, H*blockSize, W*blockSize, outputChannels].
func NewDepthToSpaceNHWC(caps *kernel.Table, dt DataType,
	outputChannels, inputChannelStride, outputChannelStride, blockSize int, flags uint32) (*Operator, error) {
	var typ Type
	switch dt {
	case X8:
		typ = TypeDepthToSpaceNHWCX8
	case X16:
		typ = TypeDepthToSpaceNHWCX16
	default:
		typ = TypeDepthToSpaceNHWCX32
	}
	op := &Operator{}
	if err := initDepthToSpace(op, caps, typ, dt.family(),
		outputChannels, inputChannelStride, outputChannelStride, blockSize, flags); err != nil {
		return nil, err
	}
	return op, nil
}

// NewDepthToSpaceNCHW2NHWC creates a depth-to-space operator reading NCHW
// and writing NHWC, for 4-byte elements. The input channel c*blockSize² +
// i*blockSize + j contributes the output channel c of the block pixel
// (i, j).
func NewDepthToSpaceNCHW2NHWC(caps *kernel.Table,
	outputChannels, inputChannelStride, outputChannelStride, blockSize int, flags uint32) (*Operator, error) {
	op := &Operator{}
	if err := initDepthToSpace(op, caps, TypeDepthToSpaceNCHW2NHWCX32, kernel.X32,
		outputChannels, inputChannelStride, outputChannelStride, blockSize, flags); err != nil {
		return nil, err
	}
	return op, nil
}

func (op *Operator) elementSize() int {
	switch op.typ {
	case TypeDepthToSpaceNHWCX8, TypeSpaceToDepthNHWCX8:
		return 1
	case TypeDepthToSpaceNHWCX16, TypeSpaceToDepthNHWCX16:
		return 2
	default:
		return 4
	}
}

// setupSpatial validates the shared spatial parameters of the derived
// operators. It returns (true, nil) when setup should continue.
func (op *Operator) setupSpatial(batch, inputHeight, inputWidth int) (bool, error) {
	op.state = StateInvalid
	if inputHeight <= 0 || inputWidth <= 0 {
		return false, op.invalidf("input dimensions %dx%d must be non-zero", inputHeight, inputWidth)
	}
	if batch < 0 {
		return false, op.invalidf("batch size must be non-negative, got %d", batch)
	}
	if batch == 0 {
		op.state = StateSkip
		return false, nil
	}
	return true, nil
}

// SetupDepthToSpaceNHWC configures an NHWC depth-to-space operator for one
// problem size. Batch 0 yields a successful no-op; zero height or width is
// an error.
func (op *Operator) SetupDepthToSpaceNHWC(batch, inputHeight, inputWidth int, input, output []byte) error {
	switch op.typ {
	case TypeDepthToSpaceNHWCX8, TypeDepthToSpaceNHWCX16, TypeDepthToSpaceNHWCX32:
	default:
		return op.typeMismatch("depth_to_space_nhwc")
	}
	cont, err := op.setupSpatial(batch, inputHeight, inputWidth)
	if !cont {
		return err
	}

	b := op.blockSize
	channels := op.channels
	ips := op.inputPixelStride
	bops := b * op.outputPixelStride

	shape := []int{batch * inputHeight, inputWidth, b, b, channels}
	perm := []int{0, 2, 1, 3, 4}
	inStride := []int{
		inputWidth * ips,
		ips,
		b * channels,
		channels,
		1,
	}
	outStride := []int{
		b * inputWidth * bops,
		inputWidth * bops,
		bops,
		op.outputPixelStride,
		1,
	}
	return op.setupTransposeND(input, output, shape, perm, inStride, outStride, op.elementSize())
}

// SetupDepthToSpaceNCHW2NHWC configures an NCHW-to-NHWC depth-to-space
// operator for one problem size.
func (op *Operator) SetupDepthToSpaceNCHW2NHWC(batch, inputHeight, inputWidth int, input, output []byte) error {
	if op.typ != TypeDepthToSpaceNCHW2NHWCX32 {
		return op.typeMismatch(TypeDepthToSpaceNCHW2NHWCX32.String())
	}
	cont, err := op.setupSpatial(batch, inputHeight, inputWidth)
	if !cont {
		return err
	}

	b := op.blockSize
	channels := op.channels
	area := inputHeight * inputWidth
	bops := b * op.outputPixelStride

	// Input viewed as [N, C, blockRow, blockCol, H, W]; output iterates
	// (N, H, blockRow, W, blockCol, C), flattening to NHWC with the
	// spatial resolution scaled up by the block size.
	shape := []int{batch, channels, b, b, inputHeight, inputWidth}
	perm := []int{0, 4, 2, 5, 3, 1}
	inStride := []int{
		op.inputPixelStride * area,
		b * b * area,
		b * area,
		area,
		inputWidth,
		1,
	}
	outStride := []int{
		inputHeight * b * inputWidth * bops,
		b * inputWidth * bops,
		inputWidth * bops,
		bops,
		op.outputPixelStride,
		1,
	}
	return op.setupTransposeND(input, output, shape, perm, inStride, outStride, op.elementSize())
}
