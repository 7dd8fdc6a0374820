package interfaces

import (
	"fmt"

	appconfig "github.com/vulpemventures/uniond/internal/app-config"
	jsonrpc_interface "github.com/vulpemventures/uniond/internal/interfaces/jsonrpc"
)

// Service interface defines the methods that every kind of interface, whether
// JSON-RPC, REST, or whatever must be compliant with.
type Service interface {
	Start() error
	Stop()
}

type ServiceManager struct {
	Service
}

func NewJSONRPCServiceManager(
	config jsonrpc_interface.ServiceConfig, appConfig *appconfig.AppConfig,
) (*ServiceManager, error) {
	svc, err := jsonrpc_interface.NewService(config, appConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initalize json-rpc service: %s", err)
	}
	return &ServiceManager{svc}, nil
}
