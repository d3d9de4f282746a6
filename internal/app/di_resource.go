package app

import (
	"fmt"

	resourceDomain "github.com/dapnet/dbgateway/internal/resource/domain"
	resourceHTTP "github.com/dapnet/dbgateway/internal/resource/http"
	resourceRepository "github.com/dapnet/dbgateway/internal/resource/repository"
	resourceUseCase "github.com/dapnet/dbgateway/internal/resource/usecase"
)

// ResourceDefinitions returns the definitions of every mediated resource, bound to the
// configured collections.
func (c *Container) ResourceDefinitions() []*resourceDomain.Definition {
	return []*resourceDomain.Definition{
		resourceDomain.NewUsersDefinition(c.config.DBUsersCollection),
		resourceDomain.NewTransmittersDefinition(c.config.DBTransmittersCollection),
	}
}

// ResourceHandlers returns one HTTP handler per mediated resource.
func (c *Container) ResourceHandlers() ([]*resourceHTTP.ResourceHandler, error) {
	var err error
	c.resourceHandlersInit.Do(func() {
		c.resourceHandlers, err = c.initResourceHandlers()
		if err != nil {
			c.initErrors["resourceHandlers"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["resourceHandlers"]; exists {
		return nil, storedErr
	}
	return c.resourceHandlers, nil
}

// initResourceHandlers builds repository, mediator and handler for every definition.
func (c *Container) initResourceHandlers() ([]*resourceHTTP.ResourceHandler, error) {
	client, err := c.CouchDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get couchdb client for resources: %w", err)
	}

	authorizer, err := c.Authorizer()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorizer for resources: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for resources: %w", err)
	}

	definitions := c.ResourceDefinitions()
	handlers := make([]*resourceHTTP.ResourceHandler, 0, len(definitions))
	for _, definition := range definitions {
		repo := resourceRepository.NewCouchDBDocumentRepository(client, definition.Collection)
		mediator := resourceUseCase.NewMediator(definition, repo, authorizer, c.PasswordService())
		mediator = resourceUseCase.NewMediatorWithMetrics(mediator, businessMetrics)
		handlers = append(handlers, resourceHTTP.NewResourceHandler(mediator, c.Logger()))
	}

	return handlers, nil
}
