/*
Package directory looks up and authenticates accounts against an Active
Directory style LDAP identity store.

The package covers three concerns:

  - Filter construction: translating partial human input (names, phone
    numbers, account names) into valid, escaped LDAP search filters.

  - Entry normalization: converting raw LDAP entries into flat Entry records
    with binary attributes (photos, objectGUID, objectSid) decoded, excluded
    organizational units dropped, and contractor classification applied.

  - Login validation: fetching an account, evaluating its expiration and
    enablement state, and verifying the supplied password with a re-bind as
    that account. Expired or disabled accounts are returned flagged rather
    than rejected; the caller decides what to do with them.

The LDAP protocol itself is delegated to github.com/go-ldap/ldap/v3. Every
search or login dials its own connection; connections are not pooled.
*/
package directory
