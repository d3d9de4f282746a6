package app

import (
	"fmt"

	authRepository "github.com/dapnet/dbgateway/internal/auth/repository"
	authService "github.com/dapnet/dbgateway/internal/auth/service"
	authUseCase "github.com/dapnet/dbgateway/internal/auth/usecase"
)

// PasswordService returns the password service used for credential verification and secret hashing.
func (c *Container) PasswordService() authService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = authService.NewPasswordService()
	})
	return c.passwordService
}

// CredentialRepository returns the repository reading user credential records.
func (c *Container) CredentialRepository() (authUseCase.CredentialRepository, error) {
	var err error
	c.credentialRepoInit.Do(func() {
		c.credentialRepo, err = c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialRepo"]; exists {
		return nil, storedErr
	}
	return c.credentialRepo, nil
}

// RoleRepository returns the repository reading role documents.
func (c *Container) RoleRepository() (authUseCase.RoleRepository, error) {
	var err error
	c.roleRepoInit.Do(func() {
		c.roleRepo, err = c.initRoleRepository()
		if err != nil {
			c.initErrors["roleRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["roleRepo"]; exists {
		return nil, storedErr
	}
	return c.roleRepo, nil
}

// CredentialUseCase returns the credential verifier, instrumented with business metrics.
func (c *Container) CredentialUseCase() (authUseCase.CredentialUseCase, error) {
	var err error
	c.credentialUseCaseInit.Do(func() {
		c.credentialUseCase, err = c.initCredentialUseCase()
		if err != nil {
			c.initErrors["credentialUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}

// Authorizer returns the permission evaluator, instrumented with business metrics.
func (c *Container) Authorizer() (authUseCase.Authorizer, error) {
	var err error
	c.authorizerInit.Do(func() {
		c.authorizer, err = c.initAuthorizer()
		if err != nil {
			c.initErrors["authorizer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authorizer"]; exists {
		return nil, storedErr
	}
	return c.authorizer, nil
}

// initCredentialRepository creates the credential repository over the users collection.
func (c *Container) initCredentialRepository() (authUseCase.CredentialRepository, error) {
	client, err := c.CouchDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get couchdb client for credential repository: %w", err)
	}
	return authRepository.NewCouchDBCredentialRepository(client, c.config.DBUsersCollection), nil
}

// initRoleRepository creates the role repository over the roles collection.
func (c *Container) initRoleRepository() (authUseCase.RoleRepository, error) {
	client, err := c.CouchDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get couchdb client for role repository: %w", err)
	}
	return authRepository.NewCouchDBRoleRepository(client, c.config.DBRolesCollection), nil
}

// initCredentialUseCase creates the credential use case with all its dependencies.
func (c *Container) initCredentialUseCase() (authUseCase.CredentialUseCase, error) {
	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for credential use case: %w", err)
	}

	roleRepo, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for credential use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for credential use case: %w", err)
	}

	useCase := authUseCase.NewCredentialUseCase(credentialRepo, roleRepo, c.PasswordService())
	return authUseCase.NewCredentialUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initAuthorizer creates the authorizer.
func (c *Container) initAuthorizer() (authUseCase.Authorizer, error) {
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for authorizer: %w", err)
	}

	return authUseCase.NewAuthorizerWithMetrics(authUseCase.NewAuthorizer(c.Logger()), businessMetrics), nil
}
