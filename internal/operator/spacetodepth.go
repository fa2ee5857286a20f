package operator

import (
	"fmt"

	"github.com/born-ml/microkernels/internal/kernel"
)

// NewSpaceToDepthNHWC creates a space-to-depth operator on NHWC layouts:
// input [N, H, W, inputChannels] becomes output
// [N, H/blockSize, W/blockSize, blockSize²*inputChannels]. It is the
// structural inverse of depth-to-space for matching block and channel
// parameters.
func NewSpaceToDepthNHWC(caps *kernel.Table, dt DataType,
	inputChannels, inputChannelStride, outputChannelStride, blockSize int, flags uint32) (*Operator, error) {
	var typ Type
	switch dt {
	case X8:
		typ = TypeSpaceToDepthNHWCX8
	case X16:
		typ = TypeSpaceToDepthNHWCX16
	default:
		typ = TypeSpaceToDepthNHWCX32
	}

	if caps == nil {
		logger.Error("failed to create operator: no capability table", "type", typ.String())
		return nil, fmt.Errorf("create %s: %w", typ, ErrUninitialized)
	}
	if !caps.Supports(dt.family()) {
		logger.Error("failed to create operator: data type family not supported", "type", typ.String())
		return nil, fmt.Errorf("create %s: %w", typ, ErrUnsupportedHardware)
	}
	if inputChannels <= 0 {
		return nil, createErrf(typ, "number of input channels must be positive, got %d", inputChannels)
	}
	if inputChannelStride < inputChannels {
		return nil, createErrf(typ, "input channel stride %d is smaller than the %d input channels",
			inputChannelStride, inputChannels)
	}
	if blockSize <= 1 {
		return nil, createErrf(typ, "block size must be greater than 1, got %d", blockSize)
	}
	outputChannels := inputChannels * blockSize * blockSize
	if outputChannelStride < outputChannels {
		return nil, createErrf(typ, "output channel stride %d is smaller than the %dx%dx%d output channels",
			outputChannelStride, blockSize, blockSize, inputChannels)
	}

	op := &Operator{
		caps:              caps,
		typ:               typ,
		flags:             flags,
		channels:          inputChannels,
		inputPixelStride:  inputChannelStride,
		outputPixelStride: outputChannelStride,
		state:             StateInvalid,
	}
	op.blockSize = blockSize
	return op, nil
}

// SetupSpaceToDepthNHWC configures an NHWC space-to-depth operator for one
// problem size. Height and width should be multiples of the block size;
// trailing rows and columns that do not fill a block are dropped.
func (op *Operator) SetupSpaceToDepthNHWC(batch, inputHeight, inputWidth int, input, output []byte) error {
	switch op.typ {
	case TypeSpaceToDepthNHWCX8, TypeSpaceToDepthNHWCX16, TypeSpaceToDepthNHWCX32:
	default:
		return op.typeMismatch("space_to_depth_nhwc")
	}
	cont, err := op.setupSpatial(batch, inputHeight, inputWidth)
	if !cont {
		return err
	}

	b := op.blockSize
	channels := op.channels
	ips := op.inputPixelStride
	ops := op.outputPixelStride

	shape := []int{batch * (inputHeight / b), b, inputWidth / b, b, channels}
	perm := []int{0, 2, 1, 3, 4}
	inStride := []int{
		b * inputWidth * ips,
		inputWidth * ips,
		b * ips,
		ips,
		1,
	}
	outStride := []int{
		(inputWidth / b) * ops,
		ops,
		b * channels,
		channels,
		1,
	}
	return op.setupTransposeND(input, output, shape, perm, inStride, outStride, op.elementSize())
}
