package dispatch

import (
	"context"

	"github.com/cyberforage/aprofile-scavenger/pkg/models"
)

// HandleResolver fetches the bytes behind a RemoteDataHandle,
// contacting its owning peer through a Proxy.
type HandleResolver func(ctx context.Context, handle models.RemoteDataHandle) ([]byte, error)

// resolveHandles walks input and replaces every RemoteDataHandle with
// its fetched bytes. Other values pass through unchanged.
func resolveHandles(ctx context.Context, resolve HandleResolver, input models.Input) (models.Input, error) {
	switch input.Kind {
	case models.InputKeyed:
		out := make(map[string]interface{}, len(input.Keyed))
		for k, v := range input.Keyed {
			resolved, err := resolveOne(ctx, resolve, v)
			if err != nil {
				return models.Input{}, err
			}
			out[k] = resolved
		}
		return models.NewKeyedInput(out), nil
	case models.InputList:
		out := make([]interface{}, len(input.List))
		for i, v := range input.List {
			resolved, err := resolveOne(ctx, resolve, v)
			if err != nil {
				return models.Input{}, err
			}
			out[i] = resolved
		}
		return models.NewListInput(out), nil
	case models.InputScalar:
		resolved, err := resolveOne(ctx, resolve, input.Scalar)
		if err != nil {
			return models.Input{}, err
		}
		return models.NewScalarInput(resolved), nil
	default:
		return input, nil
	}
}

func resolveOne(ctx context.Context, resolve HandleResolver, v interface{}) (interface{}, error) {
	handle, ok := v.(models.RemoteDataHandle)
	if !ok {
		return v, nil
	}
	return resolve(ctx, handle)
}
