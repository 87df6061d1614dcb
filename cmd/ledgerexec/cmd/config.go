package cmd

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/sdk"
)

// loadClientConfig overlays the settings of v on the client defaults. nodes, in the
// account=address form, replace the configured network when given.
func loadClientConfig(v *viper.Viper, nodes []string) (sdk.Config, error) {
	config := sdk.DefaultConfig()
	err := v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		hbarHookFunc(),
	)))
	if err != nil {
		return sdk.Config{}, fmt.Errorf("could not decode configuration: %w", err)
	}

	if len(nodes) > 0 {
		config.Network, err = parseNodes(nodes)
		if err != nil {
			return sdk.Config{}, err
		}
	}
	return config, nil
}

// parseNodes parses nodes given as account=address.
func parseNodes(nodes []string) ([]sdk.NodeAddress, error) {
	addresses := make([]sdk.NodeAddress, 0, len(nodes))
	for _, node := range nodes {
		account, address, ok := strings.Cut(node, "=")
		if !ok || account == "" || address == "" {
			return nil, fmt.Errorf("invalid node %q: expected account=address", node)
		}
		_, err := ledger.AccountIDFromString(account)
		if err != nil {
			return nil, fmt.Errorf("invalid node %q: %w", node, err)
		}
		addresses = append(addresses, sdk.NodeAddress{AccountID: account, Address: address})
	}
	return addresses, nil
}

var hbarType = reflect.TypeOf(ledger.Hbar(0))

// hbarHookFunc decodes amounts into hbars. Strings are parsed like "1.5", "1.5 ℏ" or
// "150 tℏ"; bare numbers are hbars, not tinybars.
func hbarHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != hbarType {
			return data, nil
		}
		switch f.Kind() {
		case reflect.String:
			return ledger.HbarFromString(data.(string))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return ledger.NewHbar(float64(reflect.ValueOf(data).Int())), nil
		case reflect.Float32, reflect.Float64:
			return ledger.NewHbar(reflect.ValueOf(data).Float()), nil
		default:
			return data, nil
		}
	}
}
